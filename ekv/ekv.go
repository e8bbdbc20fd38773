// Package ekv provides hand-calculation helpers for the EKV MOS
// transistor model: the normalized transconductance, the forward and
// inverse current functions and the thermal voltage.
package ekv

import "math"

const (
	boltzmann        = 1.3806488e-23
	zeroCelsius      = 273.15
	elementaryCharge = 1.60217657e-19
)

// DefaultPrecision is the Newton convergence threshold used by F when
// the caller does not supply one.
const DefaultPrecision = 1e-9

// G is the normalized EKV transconductance function.
func G(i float64) float64 {
	return math.Sqrt(0.25+i) - 0.5
}

// FInv is the normalized inverse EKV function, mapping a normalized
// current to its control voltage.
func FInv(i float64) float64 {
	g := G(i)
	return 2*g + math.Log(g)
}

// F is the normalized EKV function, mapping a control voltage to its
// normalized current. It inverts FInv by Newton iteration until the
// voltage residual drops below prec; zero or negative prec selects
// DefaultPrecision. Deep weak inversion (u < -15) returns the
// exponential asymptote directly.
func F(u, prec float64) float64 {
	if prec <= 0 {
		prec = DefaultPrecision
	}
	if u < -15 {
		return math.Exp(u)
	}
	ix := 1.0e-16
	vx := FInv(ix)
	for math.Abs(u-vx) > prec {
		vx = FInv(ix)
		ix += (u - vx) * G(ix)
	}
	return ix
}

// ThermalVoltage returns kT/q in volts for a temperature in degrees
// Celsius.
func ThermalVoltage(tempC float64) float64 {
	return boltzmann * (tempC + zeroCelsius) / elementaryCharge
}
