// Package enginetest provides a scripted in-memory engine for tests.
//
// The fake implements engine.SharedSpice, records every dispatched
// command and replays configured callback traffic synchronously during
// Command, the way the real engine delivers it. Vector queries hand out
// descriptors backed by one shared scratch buffer that is rewritten on
// every query, reproducing the transient-storage contract tests need to
// exercise.
package enginetest

import (
	"strings"
	"sync"

	"github.com/spicelab/spice-runtime/engine"
	"github.com/spicelab/spice-runtime/errors"
)

// Vector is one scripted simulation vector.
type Vector struct {
	Name  string
	Type  engine.VecType
	Flags engine.VecFlags
	Data  []float64
	Comp  []complex128
}

// Plot is one scripted plot with its vectors in listing order.
type Plot struct {
	Name    string
	Vectors []Vector
}

// Fake is a scripted engine.SharedSpice.
type Fake struct {
	mu sync.Mutex

	// Plots holds the scripted result sets; Current names the active one.
	Plots   []Plot
	Current string

	// Commands and Circuits record everything dispatched, in order.
	Commands []string
	Circuits [][]string

	// CommandStatus forces the status returned for specific commands;
	// CircuitStatus is returned by every Circuit call.
	CommandStatus map[string]int
	CircuitStatus int

	// CircuitConsole is replayed through the char callback during
	// Circuit, before the status returns.
	CircuitConsole []string

	// Callbacks receives replayed traffic. Bind with Open.
	Callbacks *engine.Callbacks

	console map[string][]string
	stats   map[string][]string
	steps   map[string][]engine.StepValues
	inits   map[string]engine.PlotInfo

	closed  bool
	scratch []float64
}

// New returns an empty fake.
func New() *Fake {
	return &Fake{
		CommandStatus: make(map[string]int),
		console:       make(map[string][]string),
		stats:         make(map[string][]string),
		steps:         make(map[string][]engine.StepValues),
		inits:         make(map[string]engine.PlotInfo),
	}
}

// Open binds cb and returns the fake itself. The signature matches the
// runtime package's engine-opener injection point.
func (f *Fake) Open(cb *engine.Callbacks) (engine.SharedSpice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Callbacks = cb
	return f, nil
}

// AddPlot appends an empty plot and makes it current.
func (f *Fake) AddPlot(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Plots = append(f.Plots, Plot{Name: name})
	f.Current = name
}

// SetVector adds or replaces a vector in the named plot. Zero flags are
// filled in from the data present.
func (f *Fake) SetVector(plot string, v Vector) {
	if v.Flags == 0 {
		if v.Data != nil {
			v.Flags |= engine.FlagReal
		}
		if v.Comp != nil {
			v.Flags |= engine.FlagComplex
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for pi := range f.Plots {
		if f.Plots[pi].Name != plot {
			continue
		}
		for vi := range f.Plots[pi].Vectors {
			if f.Plots[pi].Vectors[vi].Name == v.Name {
				f.Plots[pi].Vectors[vi] = v
				return
			}
		}
		f.Plots[pi].Vectors = append(f.Plots[pi].Vectors, v)
		return
	}
	f.Plots = append(f.Plots, Plot{Name: plot, Vectors: []Vector{v}})
	if f.Current == "" {
		f.Current = plot
	}
}

// ScriptConsole replays lines through the char callback when cmd runs.
// Lines carry the engine's tag prefix, e.g. "stdout ..." or "stderr ...".
func (f *Fake) ScriptConsole(cmd string, lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.console[cmd] = append(f.console[cmd], lines...)
}

// ScriptStats replays lines through the statistics callback when cmd runs.
func (f *Fake) ScriptStats(cmd string, lines ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats[cmd] = append(f.stats[cmd], lines...)
}

// ScriptSteps replays data points through the data callback when cmd runs.
func (f *Fake) ScriptSteps(cmd string, steps ...engine.StepValues) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps[cmd] = append(f.steps[cmd], steps...)
}

// ScriptInit replays an analysis-start payload when cmd runs.
func (f *Fake) ScriptInit(cmd string, info engine.PlotInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits[cmd] = info
}

func (f *Fake) Command(cmd string) (int, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return 0, errors.Detached("command")
	}
	f.Commands = append(f.Commands, cmd)
	cb := f.Callbacks
	console := f.console[cmd]
	stats := f.stats[cmd]
	steps := f.steps[cmd]
	info, hasInit := f.inits[cmd]
	st := f.CommandStatus[cmd]

	// Unscripted echo behaves like the real console.
	if console == nil {
		if msg, ok := strings.CutPrefix(cmd, "echo "); ok {
			console = []string{"stdout " + msg}
		}
	}
	isQuit := cmd == "quit"
	f.mu.Unlock()

	// Replayed outside the lock, synchronously before the command
	// returns, like the native engine.
	if cb != nil {
		if hasInit && cb.OnInitData != nil {
			cb.OnInitData(info)
		}
		for _, s := range steps {
			if cb.OnData != nil {
				cb.OnData(s)
			}
		}
		for _, line := range stats {
			if cb.OnStat != nil {
				cb.OnStat(line)
			}
		}
		for _, line := range console {
			if cb.OnChar != nil {
				cb.OnChar(line)
			}
		}
		if isQuit && cb.OnExit != nil {
			cb.OnExit(0, false, true)
		}
	}
	return st, nil
}

func (f *Fake) Circuit(lines []string) (int, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return 0, errors.Detached("circuit load")
	}
	recorded := append([]string(nil), lines...)
	f.Circuits = append(f.Circuits, recorded)
	cb := f.Callbacks
	console := f.CircuitConsole
	st := f.CircuitStatus
	f.mu.Unlock()

	if cb != nil {
		for _, line := range console {
			if cb.OnChar != nil {
				cb.OnChar(line)
			}
		}
	}
	return st, nil
}

func (f *Fake) CurrentPlot() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", errors.Detached("current plot")
	}
	return f.Current, nil
}

func (f *Fake) AllPlots() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, errors.Detached("plot listing")
	}
	names := make([]string, 0, len(f.Plots))
	for _, p := range f.Plots {
		names = append(names, p.Name)
	}
	return names, nil
}

func (f *Fake) AllVecs(plot string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, errors.Detached("vector listing")
	}
	for _, p := range f.Plots {
		if p.Name != plot {
			continue
		}
		names := make([]string, 0, len(p.Vectors))
		for _, v := range p.Vectors {
			names = append(names, v.Name)
		}
		return names, nil
	}
	return nil, nil
}

func (f *Fake) VecInfo(name string) (*engine.RawVector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, errors.Detached("vector query")
	}
	v := f.findVector(name)
	if v == nil {
		return nil, errors.NotFound(errors.PhaseQuery, "vector", name)
	}

	rv := &engine.RawVector{
		Name:   v.Name,
		Type:   v.Type,
		Flags:  v.Flags,
		Length: len(v.Data),
	}
	if v.Comp != nil {
		rv.Comp = append([]complex128(nil), v.Comp...)
		if v.Data == nil {
			rv.Length = len(v.Comp)
		}
	}
	if v.Data != nil {
		// One scratch buffer for every descriptor, rewritten per query.
		// A previously returned Real slice observes the clobber, exactly
		// like the engine's transient storage.
		if cap(f.scratch) < len(v.Data) {
			f.scratch = make([]float64, len(v.Data))
		}
		f.scratch = f.scratch[:len(v.Data)]
		copy(f.scratch, v.Data)
		rv.Real = f.scratch
	}
	return rv, nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// LastCommand returns the most recently dispatched command, or "".
func (f *Fake) LastCommand() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Commands) == 0 {
		return ""
	}
	return f.Commands[len(f.Commands)-1]
}

// findVector resolves plain names against the current plot and
// "plot.vector" names against any plot. Callers hold f.mu.
func (f *Fake) findVector(name string) *Vector {
	plot, vec := engine.SplitVector(name)
	if plot == "" {
		plot = f.Current
	}
	for pi := range f.Plots {
		p := &f.Plots[pi]
		if p.Name != plot {
			continue
		}
		for vi := range p.Vectors {
			v := &p.Vectors[vi]
			if v.Name == vec {
				return v
			}
		}
	}
	return nil
}
