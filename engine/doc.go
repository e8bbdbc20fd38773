// Package engine provides the low-level binding to the ngspice shared
// library.
//
// This package loads the engine with dlopen, resolves its exported
// interface and registers the callback trampolines the engine needs.
// Everything cgo lives here; the rest of the module is plain Go against
// the SharedSpice interface.
//
// # Architecture
//
// The package revolves around three pieces:
//
//	SharedSpice - the resolved engine interface, one method per export
//	Callbacks   - the six engine-to-host entry points, pinned at Open
//	RawVector   - a vector descriptor wrapping engine-owned storage
//
// # Attachment Flow
//
//  1. Open dlopens the library (explicit path or platform candidates)
//  2. The seven exported symbols are resolved; any gap fails Open
//  3. The Callbacks set is pinned in package state
//  4. The engine's init export registers the C trampolines
//
// The engine initializes once per process. A second Open fails while an
// attachment is live, and the engine stays consumed after Close: its
// internal state cannot be re-created without restarting the process.
//
// # Callback Discipline
//
// The engine invokes the registered trampolines synchronously, on
// whatever thread it is running, including its background simulation
// thread. Each trampoline recovers panics before returning into native
// code and reports the swallowed fault through the package logger. The
// pinned Callbacks pointer is never released; the engine may call in
// during its own shutdown, after Close has returned.
//
// # Data Ownership
//
// VecInfo wraps the engine's transient vector storage. The RawVector's
// Real slice aliases that storage and is overwritten by the next engine
// call; Comp is copied at fetch time. Callers that keep data across
// calls must copy first (At and Range copy, as do the runtime package's
// Series and Table).
//
// # Known Limitations
//
// The library is never dlclosed. The engine spawns internal threads and
// holds the trampoline pointers, so unloading is only safe at process
// exit. Builds without cgo, or on platforms without dlopen, compile
// against a stub whose Open always fails with an unsupported error.
//
// Most users should use the runtime package for a safer API. This
// package is for advanced use cases requiring direct engine control.
package engine
