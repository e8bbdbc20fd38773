// Package spiceruntime provides Go bindings for the ngspice shared
// simulation engine.
//
// This library drives a circuit simulation engine loaded into the host
// process through its exported C interface, keeps the engine's callback
// entry points alive for the attachment's lifetime, and exposes a safe
// query API over the engine's transient vector store.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	spiceruntime/        Root package with the MessageSink contract
//	├── runtime/         High-level API for attaching and driving the engine
//	├── engine/          Low-level shared-library loading and the native ABI
//	├── vector/          Host-owned copies of simulation results
//	├── store/           Persistent archive of completed runs
//	├── ekv/             EKV transistor model hand-calculation helpers
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Attach to the engine, load a circuit and read a result:
//
//	rt, err := runtime.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	err = rt.Circuit(
//	    "test circuit",
//	    "v1 n1 0 1",
//	    "r1 n1 n2 1k",
//	    "r2 n2 0 1k",
//	    ".dc v1 0 1 0.1",
//	    ".end",
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := rt.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
//	series, err := rt.Series("v(n2)")
//	fmt.Println(series.Data)
//
// # Engine Lifetime
//
// The underlying engine initializes once per process and cannot be
// re-initialized. Open fails with a conflict error while another Runtime
// is attached; after Close the engine stays consumed for the remainder
// of the process.
//
// # Thread Safety
//
// Runtime is NOT safe for concurrent use. The engine runs simulations on
// the caller's thread and delivers callbacks synchronously during native
// calls, so all access must come from a single goroutine, or be
// synchronized by the caller.
//
// # Data Ownership
//
// Vector data returned by VectorInfo aliases engine memory and is only
// valid until the next engine call. Series and Table return copies the
// caller owns. Prefer the copying accessors unless the extra allocation
// matters.
package spiceruntime
