// Package runtime provides the high-level API for driving an attached
// simulation engine.
//
// # Quick Start
//
//	rt, err := runtime.Open(
//	    runtime.WithLibraryPath("/usr/lib/libngspice.so"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	// Load a circuit and run it
//	err = rt.Circuit(
//	    ".title simple divider",
//	    "V1 vdd 0 1",
//	    "R1 vdd n2 10k",
//	    "R2 n2 0 10k",
//	    ".tran 1u 1m",
//	    ".end",
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := rt.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Fetch the results as host-owned columns
//	table, err := rt.Table("")
//	fmt.Println(table.Columns()) // [time v(n2) i(v1)]
//
// # Dispatch
//
// Three ways to feed the engine:
//
//	Command(text)   - one interactive command line
//	Circuit(lines)  - a full netlist, ending in .end
//	Source(path)    - a netlist file on disk
//
// Run and Reset are convenience wrappers over Command. All dispatch
// entry points reject text containing NUL bytes or invalid UTF-8
// before it reaches the engine.
//
// # Console Routing
//
// Engine console output arrives line by line through the message sink
// configured with WithMessageSink. Lines keep their text but lose the
// leading stream tag; the most recent line is always available from
// LastMessage, even when routing is suppressed.
//
// Silently runs a function with console and progress routing turned
// off. It restores routing on every exit path, including a panic in
// the argument, and refuses to nest.
//
// # Progress
//
// Simulation statistics that parse as "label: NN.N%" drive the
// renderer configured with WithProgress through a start/advance/done
// cycle. Percentages never move backwards within a cycle; a value at
// or beyond 99.9 completes it. Statistics that do not parse go to the
// message sink untouched.
//
// # Vectors and Tables
//
// Query results come in two flavors:
//
//	VectorInfo(name)  - borrowed view, valid until the next call
//	Series(name)      - host-owned copy of one vector
//	Table(plot)       - host-owned copy of every vector in a plot
//
// Series and Table rename branch-current vectors from the engine's
// "name#branch" form to "i(name)". VectorInfo reports names exactly
// as the engine stores them.
//
// # Thread Safety
//
// Runtime is NOT safe for concurrent use. The engine underneath is a
// single non-reentrant process-wide instance; serialize all calls on
// one goroutine or guard them externally. Callbacks arrive on the
// engine's thread and are routed internally.
//
// # Lifecycle
//
// Open attaches the engine and pins the callback set for the life of
// the process. Close sends quit and detaches; after Close (or an
// engine-initiated exit) every dispatch and query returns a detached
// error. A process gets one attachment; a second Open fails.
package runtime
