package spiceruntime

import "io"

// MessageSink receives console output the engine emits through its
// character callback. Lines arrive without a trailing newline and with
// the engine's stdout/stderr tag already stripped.
type MessageSink interface {
	WriteLine(line string)
}

// SinkFunc adapts a function to the MessageSink interface
type SinkFunc func(line string)

// WriteLine calls f(line)
func (f SinkFunc) WriteLine(line string) {
	f(line)
}

// WriterSink adapts an io.Writer to the MessageSink interface, writing
// one line per WriteLine call. Write errors are dropped; console output
// is best-effort.
type WriterSink struct {
	W io.Writer
}

// WriteLine writes line plus a newline to the underlying writer
func (s WriterSink) WriteLine(line string) {
	io.WriteString(s.W, line+"\n")
}
