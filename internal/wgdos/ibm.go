package wgdos

import "math"

// ToIBM converts x to the nearest IBM System/360 single precision value:
// a sign bit, a 7-bit excess-64 base-16 exponent and a 24-bit fraction.
// Values too small to represent become zero; values too large saturate.
func ToIBM(x float64) uint32 { return toIBM(x, math.Round) }

// floorIBM returns the largest IBM value that is not above x.
func floorIBM(x float64) uint32 {
	if x < 0 {
		return toIBM(x, math.Ceil)
	}
	return toIBM(x, math.Floor)
}

// toIBM converts x, rounding the magnitude of the fraction with round.
func toIBM(x float64, round func(float64) float64) uint32 {
	if x == 0 || math.IsNaN(x) {
		return 0
	}
	var sign uint32
	if x < 0 {
		sign = 1 << 31
		x = -x
	}
	if math.IsInf(x, 0) {
		return sign | 0x7FFFFFFF
	}

	_, p := math.Frexp(x)
	e := floorDiv(p+3, 4)
	frac := round(math.Ldexp(x, 24-4*e))
	if frac >= 1<<24 {
		frac /= 16
		e++
	}

	exp := e + 64
	switch {
	case exp > 127:
		return sign | 0x7FFFFFFF
	case exp < 0:
		return 0
	}
	return sign | uint32(exp)<<24 | uint32(frac)
}

// FromIBM converts an IBM single precision value to float64. The
// conversion is exact.
func FromIBM(u uint32) float64 {
	frac := u & 0xFFFFFF
	if frac == 0 {
		return 0
	}
	exp := int((u >> 24) & 0x7F)
	v := math.Ldexp(float64(frac), 4*(exp-64)-24)
	if u&(1<<31) != 0 {
		v = -v
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
