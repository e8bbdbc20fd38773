package engine

import "runtime"

// SharedSpice is the narrow surface over the engine's exported C
// interface. One implementation wraps the real shared library; tests
// substitute a scripted fake.
//
// All calls are one-shot: a failed call is never retried, and the engine
// delivers its callbacks synchronously on the caller's stack before the
// method returns.
type SharedSpice interface {
	// Command forwards one interactive command line to the engine and
	// returns the engine's raw status code.
	Command(cmd string) (int, error)

	// Circuit loads a circuit description, one directive per entry. The
	// slice crosses the boundary as a null-terminated string array.
	// Returns the engine's raw status code; nonzero means the circuit
	// was refused.
	Circuit(lines []string) (int, error)

	// CurrentPlot returns the name of the plot produced by the most
	// recent analysis, or "" when none exists.
	CurrentPlot() (string, error)

	// AllPlots returns the names of every plot the engine holds.
	AllPlots() ([]string, error)

	// AllVecs returns the unqualified vector names of one plot.
	AllVecs(plot string) ([]string, error)

	// VecInfo queries one vector by plain or "plot.vector" name. The
	// returned descriptor's real data aliases engine storage and is only
	// valid until the next call on this interface.
	VecInfo(name string) (*RawVector, error)

	// Close releases the attachment. The library itself stays loaded in
	// the process; see the package documentation.
	Close() error
}

// Callbacks is the set of engine-to-host entry points registered at Open.
// The set is pinned for the remainder of the process: the engine keeps
// raw pointers to the registered trampolines and may still invoke them
// while shutting down, after Close.
//
// Nil fields are skipped when the engine calls in. Callback bodies run
// on whatever thread the engine chooses and must not panic; the
// trampolines recover as a last resort and drop the fault.
type Callbacks struct {
	// OnChar receives one line of console output, still carrying the
	// engine's "stdout"/"stderr" tag prefix.
	OnChar func(line string)

	// OnStat receives one line of simulation statistics.
	OnStat func(line string)

	// OnExit fires when the engine processes a quit request or aborts.
	// status is the engine's exit code, unload reports whether the
	// library asks to be unloaded, quit whether the exit was requested.
	OnExit func(status int, unload, quit bool)

	// OnData fires once per accepted simulation data point.
	OnData func(vals StepValues)

	// OnInitData fires when an analysis starts, describing the vectors
	// the coming run will produce.
	OnInitData func(info PlotInfo)

	// OnBGRunning reports background-thread state changes. running is
	// true while the engine's background thread is active.
	OnBGRunning func(running bool)
}

// LibraryCandidates returns the shared-library names tried, in order,
// when Open is called with an empty path. Bare names go through the
// platform loader's regular search path.
func LibraryCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"libngspice.dylib",
			"libngspice.0.dylib",
			"/opt/homebrew/lib/libngspice.dylib",
			"/usr/local/lib/libngspice.dylib",
		}
	case "windows":
		return []string{"ngspice.dll"}
	default:
		return []string{"libngspice.so", "libngspice.so.0"}
	}
}
