package runtime

import (
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spicelab/spice-runtime/errors"
)

// validText reports whether s can cross the native boundary as a
// NUL-terminated UTF-8 string.
func validText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// Command forwards one interactive command line to the engine and
// blocks until the engine has processed it, console callbacks included.
//
// The engine reports most command-level problems on the console rather
// than through its return status, so a nonzero status is logged but not
// turned into an error.
func (r *Runtime) Command(cmd string) error {
	if r.detached.Load() {
		return errors.Detached("command")
	}
	if !validText(cmd) {
		return errors.InvalidEncoding(errors.PhaseDispatch, "command", cmd)
	}
	status, err := r.eng.Command(cmd)
	if err != nil {
		return err
	}
	if status != 0 {
		r.log.Warn("command returned nonzero status",
			zap.String("command", cmd),
			zap.Int("status", status))
	}
	return nil
}

// Silently runs fn with console output suppressed: no line reaches the
// message sink between entry and return, and any progress cycle in
// flight is abandoned. The suppression is scoped to this call and lifts
// on every exit path, a panicking fn included. Last-message recording
// continues so errors keep their context.
//
// Silently does not nest; a call from inside fn fails with a conflict
// error.
func (r *Runtime) Silently(fn func() error) error {
	if !r.silent.CompareAndSwap(false, true) {
		return errors.New(errors.PhaseDispatch, errors.KindConflict).
			Detail("silent mode already engaged").
			Build()
	}
	defer r.silent.Store(false)
	return fn()
}

// Circuit loads a circuit description, one element per line, in place
// of any circuit the engine currently holds. Lines reach the engine
// untouched; the dispatcher checks only that each line is clean text
// and that the description closes with the .end directive, since the
// engine aborts the process on some malformed input instead of
// rejecting it.
//
// A circuit the engine parses but refuses fails with an engine
// rejection error carrying the engine's last stderr line.
func (r *Runtime) Circuit(lines ...string) error {
	if r.detached.Load() {
		return errors.Detached("circuit load")
	}
	if len(lines) == 0 {
		return errors.InvalidLine(0, "empty circuit description")
	}
	for i, line := range lines {
		if !validText(line) {
			return errors.InvalidLine(i, "line is not NUL-free UTF-8")
		}
	}
	last := len(lines) - 1
	if !strings.EqualFold(strings.TrimSpace(lines[last]), ".end") {
		return errors.InvalidLine(last, "description must close with .end")
	}
	status, err := r.eng.Circuit(lines)
	if err != nil {
		return err
	}
	if status != 0 {
		return errors.EngineRejected("circuit load", status, r.lastErrLine())
	}
	return nil
}

// Source loads a circuit file through the engine's own source command.
// The path is checked first so a missing file fails cleanly instead of
// reaching the engine.
func (r *Runtime) Source(path string) error {
	if r.detached.Load() {
		return errors.Detached("source")
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return errors.FileNotFound(path)
	}
	return r.Command("source " + path)
}

// Run starts the queued analysis and blocks until the engine finishes.
// Results land in a new plot; see CurrentPlot and Table.
func (r *Runtime) Run() error {
	return r.Command("run")
}

// Reset drops the loaded circuit and all accumulated plots.
func (r *Runtime) Reset() error {
	return r.Command("reset")
}
