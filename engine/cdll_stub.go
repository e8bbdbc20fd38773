//go:build !cgo || (!linux && !darwin && !freebsd)

package engine

import "github.com/spicelab/spice-runtime/errors"

// Open needs cgo and a platform with dlopen; this build has neither.
func Open(path string, cb *Callbacks) (SharedSpice, error) {
	return nil, errors.Unsupported(errors.PhaseOpen,
		"engine loading requires cgo on linux, darwin or freebsd")
}
