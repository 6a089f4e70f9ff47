package radiance

import (
	"github.com/chewxy/math32"
)

const (
	// exponentBias is the RGBE exponent bias; a further 8 is subtracted to
	// normalise the 8-bit mantissas.
	exponentBias = 128
	mantissaBits = 8
)

// RGBE is one packed pixel: three 8-bit mantissas and a shared exponent,
// stored in the file in the order R, G, B, E.
type RGBE struct {
	R, G, B, E uint8
}

// RGBEFromBytes assigns the four bytes positionally as R, G, B, E.
func RGBEFromBytes(b [4]byte) RGBE {
	return RGBE{R: b[0], G: b[1], B: b[2], E: b[3]}
}

// IsRLE reports whether c, read as the first four bytes of a scanline, is a
// new-style run-length marker declaring the given scanline width.
func (c RGBE) IsRLE(width uint32) bool {
	if c.R != 2 || c.G != 2 || c.B&0x80 != 0 {
		return false
	}
	return uint32(c.B)<<8|uint32(c.E) == width
}

// Scale returns the multiplier applied to each mantissa, 2^(E-136).
// It is 0 for the zero exponent.
func (c RGBE) Scale() float32 {
	if c.E == 0 {
		return 0
	}
	return math32.Ldexp(1, int(c.E)-(exponentBias+mantissaBits))
}

// RGB converts c to linear floating point. An exponent of 0 encodes black
// regardless of the mantissas.
func (c RGBE) RGB() RGB {
	if c.E == 0 {
		return RGB{}
	}
	f := c.Scale()
	return RGB{
		R: float32(c.R) * f,
		G: float32(c.G) * f,
		B: float32(c.B) * f,
	}
}

// RGB is a linear floating point pixel.
type RGB struct {
	R, G, B float32
}
