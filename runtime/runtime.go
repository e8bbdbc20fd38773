package runtime

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	spiceruntime "github.com/spicelab/spice-runtime"
	"github.com/spicelab/spice-runtime/engine"
)

// Runtime drives an attached simulation engine: command dispatch,
// circuit loading, console routing, progress tracking and result
// queries, over the callback bridge registered at Open.
//
// A Runtime is not safe for concurrent use. The engine executes
// synchronously inside dispatch calls and delivers callbacks on that
// same stack (or on its own background thread during background runs),
// so drive it from one goroutine.
type Runtime struct {
	eng  engine.SharedSpice
	log  *zap.Logger
	sink spiceruntime.MessageSink

	progress *tracker
	stepHook func(engine.StepValues)
	initHook func(engine.PlotInfo)

	silent   atomic.Bool
	detached atomic.Bool
	steps    atomic.Int64

	mu        sync.Mutex
	lastMsg   string
	lastErr   string
	exitSeen  bool
	exitCode  int
	bgRunning bool
}

// Open attaches to the engine and registers the callback bridge.
// Without options it loads the shared library from the platform's
// default candidates and routes console output to stdout.
//
// Only one attachment can exist per process, and the engine cannot be
// re-initialized after Close; a second Open fails with a conflict error.
func Open(opts ...Option) (*Runtime, error) {
	o := buildOptions(opts)

	r := &Runtime{
		log:      o.logger,
		sink:     o.sink,
		stepHook: o.onStep,
		initHook: o.onInit,
	}
	r.progress = newTracker(o.renderer, func(line string) { r.emit(line) })

	engine.SetLogger(o.logger)
	eng, err := o.open(r.callbacks())
	if err != nil {
		return nil, err
	}
	r.eng = eng
	return r, nil
}

// Close asks the engine to quit and releases the attachment. After
// Close every operation fails with a detached error; the engine stays
// consumed for the remainder of the process.
func (r *Runtime) Close() error {
	if r.detached.Swap(true) {
		return nil
	}
	if _, err := r.eng.Command("quit"); err != nil {
		r.log.Warn("quit dispatch failed", zap.Error(err))
	}
	return r.eng.Close()
}

// Detached reports whether the attachment has been released, either by
// Close or by the engine announcing its own exit.
func (r *Runtime) Detached() bool {
	return r.detached.Load()
}

// ExitStatus returns the status the engine reported through its exit
// callback. The second result is false until that callback has fired.
func (r *Runtime) ExitStatus() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exitCode, r.exitSeen
}

// BackgroundRunning reports whether the engine's background thread is
// currently simulating.
func (r *Runtime) BackgroundRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bgRunning
}

// LastMessage returns the most recent console line received from the
// engine, tag stripped, including lines suppressed by silent mode.
func (r *Runtime) LastMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastMsg
}

// StepCount returns the number of simulation data points accepted since
// the attachment opened.
func (r *Runtime) StepCount() int64 {
	return r.steps.Load()
}

// emit writes one line to the message sink, tolerating sink faults.
func (r *Runtime) emit(line string) {
	if r.sink == nil {
		return
	}
	r.guard("sink", func() { r.sink.WriteLine(line) })
}

// guard runs fn and degrades a panic into a log entry. Nothing that
// runs under an engine callback may fail across the native boundary.
func (r *Runtime) guard(origin string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("callback fault suppressed",
				zap.String("origin", origin),
				zap.Any("panic", rec))
		}
	}()
	fn()
}

func (r *Runtime) noteExit(status int) {
	r.mu.Lock()
	r.exitSeen = true
	r.exitCode = status
	r.mu.Unlock()
	r.detached.Store(true)
}

func (r *Runtime) noteConsole(line, errLine string, isErr bool) {
	r.mu.Lock()
	r.lastMsg = line
	if isErr {
		r.lastErr = errLine
	}
	r.mu.Unlock()
}

func (r *Runtime) lastErrLine() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Runtime) setBG(running bool) {
	r.mu.Lock()
	r.bgRunning = running
	r.mu.Unlock()
}
