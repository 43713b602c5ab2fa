package report

import (
	"fmt"
	"math"
)

// piForms are the phases shown in pi notation.
var piForms = []struct {
	value   float64
	display string
}{
	{math.Pi, "pi"},
	{math.Pi / 2, "pi/2"},
	{math.Pi / 4, "pi/4"},
	{3 * math.Pi / 4, "3pi/4"},
	{math.Pi / 3, "pi/3"},
	{2 * math.Pi / 3, "2pi/3"},
	{math.Pi / 6, "pi/6"},
	{math.Pi / 8, "pi/8"},
}

// FormatPhase formats an angle in radians, using pi notation for the common
// fractions the supported gates produce.
func FormatPhase(val float64) string {
	if math.Abs(val) < 1e-10 {
		return "0"
	}
	for _, pf := range piForms {
		if math.Abs(val-pf.value) < 1e-10 {
			return pf.display
		}
		if math.Abs(val+pf.value) < 1e-10 {
			return "-" + pf.display
		}
	}
	return fmt.Sprintf("%.4f", val)
}

// FormatSigned prints x with an explicit sign and four decimals. Values
// within the simulator tolerance print as +0.0000.
func FormatSigned(x float64) string {
	if math.Abs(x) < 1e-8 {
		x = 0
	}
	return fmt.Sprintf("%+.4f", x)
}

// FormatComplex prints a+bi with four decimals per part.
func FormatComplex(a Amplitude) string {
	return FormatSigned(a.Re) + FormatSigned(a.Im) + "i"
}
