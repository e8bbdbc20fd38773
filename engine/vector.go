package engine

import (
	"fmt"
	"strings"

	"github.com/spicelab/spice-runtime/errors"
)

// VecFlags is the engine's per-vector flag word.
type VecFlags int16

const (
	FlagReal      VecFlags = 1 << 0 // vector holds real samples
	FlagComplex   VecFlags = 1 << 1 // vector holds complex samples
	FlagAccum     VecFlags = 1 << 2
	FlagPlot      VecFlags = 1 << 3
	FlagPrint     VecFlags = 1 << 4
	FlagMinGiven  VecFlags = 1 << 5
	FlagMaxGiven  VecFlags = 1 << 6
	FlagPermanent VecFlags = 1 << 7
)

var flagNames = []struct {
	bit  VecFlags
	name string
}{
	{FlagReal, "real"},
	{FlagComplex, "complex"},
	{FlagAccum, "accum"},
	{FlagPlot, "plot"},
	{FlagPrint, "print"},
	{FlagMinGiven, "min-given"},
	{FlagMaxGiven, "max-given"},
	{FlagPermanent, "permanent"},
}

func (f VecFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.bit != 0 {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("flags(%#x)", int16(f))
	}
	return strings.Join(parts, "|")
}

// VecType identifies the physical quantity a vector carries. Values
// mirror the engine's simulation-type enumeration.
type VecType int

const (
	TypeNoType VecType = iota
	TypeTime
	TypeFrequency
	TypeVoltage
	TypeCurrent
	TypeVoltageDensity
	TypeCurrentDensity
	TypeSqrVoltageDensity
	TypeSqrCurrentDensity
	TypeSqrVoltage
	TypeSqrCurrent
	TypePole
	TypeZero
	TypeSFactor
	TypeTemp
	TypeRes
	TypeImpedance
	TypeAdmittance
	TypePower
	TypePhase
	TypeDB
	TypeCapacitance
	TypeCharge
)

var vecTypeNames = [...]string{
	"notype",
	"time",
	"frequency",
	"voltage",
	"current",
	"voltage-density",
	"current-density",
	"sqr-voltage-density",
	"sqr-current-density",
	"sqr-voltage",
	"sqr-current",
	"pole",
	"zero",
	"s-param",
	"temperature",
	"resistance",
	"impedance",
	"admittance",
	"power",
	"phase",
	"decibel",
	"capacitance",
	"charge",
}

func (t VecType) String() string {
	if t >= 0 && int(t) < len(vecTypeNames) {
		return vecTypeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// RawVector describes one simulation vector as reported by the engine.
//
// Real aliases the engine's backing storage and is only valid until the
// next call on the SharedSpice that produced it; the engine reuses that
// storage on every query. Comp is copied at fetch time and owned by the
// caller. Copy Real out (see At and Range, or the runtime package's
// Series and Table) before issuing another engine call.
type RawVector struct {
	Name   string
	Type   VecType
	Flags  VecFlags
	Length int
	Real   []float64
	Comp   []complex128
}

// HasRealData reports whether the vector carries real-valued samples.
// Purely complex vectors have none.
func (v *RawVector) HasRealData() bool {
	return v.Real != nil
}

// At returns the real sample at index i. The second result is false when
// the vector has no real data; an index outside [0, Length) fails.
func (v *RawVector) At(i int) (float64, bool, error) {
	if i < 0 || i >= v.Length {
		return 0, false, errors.OutOfRange([]string{v.Name}, i, v.Length)
	}
	if v.Real == nil {
		return 0, false, nil
	}
	return v.Real[i], true, nil
}

// Range copies real samples from index start up to but excluding stop.
// A negative stop means the full remaining vector. An explicit stop past
// the end fails, as does a start outside [0, Length]. When stop lands
// before start the result is empty. Vectors without real data yield nil
// with no error.
func (v *RawVector) Range(start, stop int) ([]float64, error) {
	if start < 0 || start > v.Length {
		return nil, errors.OutOfRange([]string{v.Name}, start, v.Length)
	}
	if stop < 0 {
		stop = v.Length
	} else if stop > v.Length {
		return nil, errors.OutOfRange([]string{v.Name}, stop, v.Length)
	}
	if v.Real == nil {
		return nil, nil
	}
	if stop < start {
		stop = start
	}
	out := make([]float64, stop-start)
	copy(out, v.Real[start:stop])
	return out, nil
}
