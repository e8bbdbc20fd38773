package runtime

import (
	"os"

	"go.uber.org/zap"

	spiceruntime "github.com/spicelab/spice-runtime"
	"github.com/spicelab/spice-runtime/engine"
)

// EngineOpener attaches a callback set to an engine implementation.
// The default opener loads the native shared library; tests substitute
// an in-process fake with the same shape.
type EngineOpener func(cb *engine.Callbacks) (engine.SharedSpice, error)

// Option configures an attachment before the engine is initialized.
type Option func(*options)

type options struct {
	libPath  string
	open     EngineOpener
	sink     spiceruntime.MessageSink
	renderer ProgressRenderer
	logger   *zap.Logger
	onStep   func(engine.StepValues)
	onInit   func(engine.PlotInfo)
}

func buildOptions(opts []Option) *options {
	o := &options{
		sink:   spiceruntime.WriterSink{W: os.Stdout},
		logger: engine.Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.open == nil {
		path := o.libPath
		o.open = func(cb *engine.Callbacks) (engine.SharedSpice, error) {
			return engine.Open(path, cb)
		}
	}
	return o
}

// WithLibraryPath loads the engine from an explicit shared library path
// instead of probing the platform's default candidates.
func WithLibraryPath(path string) Option {
	return func(o *options) { o.libPath = path }
}

// WithEngine substitutes the engine opener. The opener receives the
// runtime's callback set and must hand it to whatever implementation it
// attaches.
func WithEngine(open EngineOpener) Option {
	return func(o *options) { o.open = open }
}

// WithMessageSink routes engine console output to sink. A nil sink
// discards output.
func WithMessageSink(sink spiceruntime.MessageSink) Option {
	return func(o *options) { o.sink = sink }
}

// WithProgress renders simulation statistics through r instead of
// forwarding raw statistics lines to the message sink.
func WithProgress(r ProgressRenderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithLogger sets the structured logger for runtime and engine
// diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOnStep registers fn to observe every simulation data point as the
// engine produces it. fn runs inside the engine callback and must
// return promptly.
func WithOnStep(fn func(engine.StepValues)) Option {
	return func(o *options) { o.onStep = fn }
}

// WithOnInitData registers fn to observe the vector layout announced at
// the start of each analysis.
func WithOnInitData(fn func(engine.PlotInfo)) Option {
	return func(o *options) { o.onInit = fn }
}
