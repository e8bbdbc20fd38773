package runtime

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spicelab/spice-runtime/engine"
)

// callbacks builds the engine callback set. The closures fire on the
// engine's stack, inside dispatch calls or on the background thread, so
// they only touch guarded runtime state and never dispatch back into
// the engine.
func (r *Runtime) callbacks() *engine.Callbacks {
	return &engine.Callbacks{
		OnChar:      r.onChar,
		OnStat:      r.onStat,
		OnExit:      r.onExit,
		OnData:      r.onData,
		OnInitData:  r.onInitData,
		OnBGRunning: r.onBGRunning,
	}
}

// onChar receives one console line. The engine prefixes each line with
// its channel tag; the tag is stripped and the rest kept verbatim,
// leading space included. The line is recorded even under silent mode
// so rejection errors can carry the engine's own words.
func (r *Runtime) onChar(line string) {
	stripped := line
	isErr := false
	if rest, ok := strings.CutPrefix(line, "stdout"); ok {
		stripped = rest
	} else if rest, ok := strings.CutPrefix(line, "stderr"); ok {
		stripped = rest
		isErr = true
	}
	r.noteConsole(stripped, strings.TrimSpace(stripped), isErr)
	if r.silent.Load() {
		return
	}
	r.emit(stripped)
}

// onStat receives one statistics line. Under silent mode the line is
// dropped and any progress cycle in flight is abandoned; otherwise the
// tracker either renders it as progress or routes it to the sink.
func (r *Runtime) onStat(line string) {
	if r.silent.Load() {
		r.guard("progress", r.progress.silence)
		return
	}
	r.guard("progress", func() { r.progress.observe(line) })
}

// onExit records the engine's announced status and marks the attachment
// detached. The engine is past recovery at this point whatever the
// flags say.
func (r *Runtime) onExit(status int, unload, quit bool) {
	r.noteExit(status)
	r.log.Info("engine exit",
		zap.Int("status", status),
		zap.Bool("unload", unload),
		zap.Bool("quit", quit))
	if !r.silent.Load() {
		r.emit(fmt.Sprintf("engine exit %d (unload=%t, quit=%t)", status, unload, quit))
	}
}

// onData counts one accepted simulation point and feeds the step hook.
func (r *Runtime) onData(vals engine.StepValues) {
	r.steps.Add(1)
	if r.stepHook != nil {
		r.guard("step hook", func() { r.stepHook(vals) })
	}
}

// onInitData announces the vector layout of a starting analysis.
func (r *Runtime) onInitData(info engine.PlotInfo) {
	r.log.Debug("analysis layout",
		zap.String("plot", info.Name),
		zap.String("type", info.Type),
		zap.Int("vectors", len(info.Vectors)))
	if !r.silent.Load() {
		r.emit(fmt.Sprintf("analysis %s (%s): %d vectors", info.Name, info.Type, len(info.Vectors)))
	}
	if r.initHook != nil {
		r.guard("init hook", func() { r.initHook(info) })
	}
}

// onBGRunning tracks the engine's background thread state.
func (r *Runtime) onBGRunning(running bool) {
	r.setBG(running)
	r.log.Debug("background state", zap.Bool("running", running))
	if r.silent.Load() {
		return
	}
	if running {
		r.emit("background run started")
	} else {
		r.emit("background run finished")
	}
}
