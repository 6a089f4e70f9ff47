// Package half provides IEEE 754 binary16 half-precision floating-point numbers.
//
// Half-precision floats use 16 bits with the following layout:
//   - 1 bit sign
//   - 5 bits exponent (bias of 15)
//   - 10 bits mantissa (implicit leading 1 for normalized values)
//
// Decoded Radiance pixels are exported as halves for GPU texture upload,
// where 16-bit float RGB is the usual HDR format.
package half

import (
	"math"
)

// Half represents an IEEE 754 binary16 half-precision floating-point number.
type Half uint16

const (
	signMask     = 0x8000
	exponentMask = 0x7C00
	mantissaMask = 0x03FF

	exponentBias = 15
	maxExponent  = 31

	f32ExponentBias = 127
	f32MantissaBits = 23
)

// Common constant values
const (
	Inf               Half = 0x7C00
	NegInf            Half = 0xFC00
	NaN               Half = 0x7E00
	Zero              Half = 0x0000
	Max               Half = 0x7BFF // 65504
	SmallestNormal    Half = 0x0400 // ~6.1e-5
	SmallestSubnormal Half = 0x0001 // ~5.96e-8
)

// roundShift drops the low shift bits of m, rounding to nearest even.
func roundShift(m uint32, shift uint) uint32 {
	out := m >> shift
	halfway := uint32(1) << (shift - 1)
	rest := m & (halfway<<1 - 1)
	if rest > halfway || (rest == halfway && out&1 == 1) {
		out++
	}
	return out
}

// FromFloat32 converts a float32 to a Half using round-to-nearest-even.
// Values too large for a half become infinity.
func FromFloat32(f float32) Half {
	bits := math.Float32bits(f)
	sign := Half(bits>>16) & signMask
	exp := int(bits>>f32MantissaBits) & 0xFF
	mantissa := bits & (1<<f32MantissaBits - 1)

	if exp == 0xFF {
		if mantissa == 0 {
			return sign | Inf
		}
		return sign | NaN
	}
	if exp == 0 {
		// float32 subnormals are far below the half range.
		return sign
	}

	e := exp - f32ExponentBias + exponentBias
	switch {
	case e >= maxExponent:
		return sign | Inf
	case e <= 0:
		// Subnormal half, or zero if even the implicit bit shifts out.
		shift := uint(14 - e)
		if shift > 24 {
			return sign
		}
		return sign | Half(roundShift(mantissa|1<<f32MantissaBits, shift))
	}

	// A carry out of the mantissa bumps the exponent, which is exactly
	// what adding the rounded mantissa to the shifted exponent does.
	v := uint32(e)<<10 + roundShift(mantissa, f32MantissaBits-10)
	if v >= uint32(Inf) {
		return sign | Inf
	}
	return sign | Half(v)
}

// Float32 converts a Half to a float32. The conversion is exact.
func (h Half) Float32() float32 {
	sign := uint32(h&signMask) << 16
	exp := int(h&exponentMask) >> 10
	mantissa := uint32(h & mantissaMask)

	switch exp {
	case 0:
		if mantissa == 0 {
			return math.Float32frombits(sign)
		}
		v := float32(mantissa) * (1.0 / (1 << 24))
		if sign != 0 {
			return -v
		}
		return v
	case maxExponent:
		return math.Float32frombits(sign | 0x7F800000 | mantissa<<13)
	}
	e := uint32(exp - exponentBias + f32ExponentBias)
	return math.Float32frombits(sign | e<<f32MantissaBits | mantissa<<13)
}

// FromFloat32Slice converts src into dst, which must be at least as long.
func FromFloat32Slice(dst []Half, src []float32) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	for i, f := range src {
		dst[i] = FromFloat32(f)
	}
}
