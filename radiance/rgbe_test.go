package radiance

import (
	"math"
	"testing"
)

func TestRGBEFromBytes(t *testing.T) {
	c := RGBEFromBytes([4]byte{1, 2, 3, 4})
	if c.R != 1 || c.G != 2 || c.B != 3 || c.E != 4 {
		t.Errorf("RGBEFromBytes() = %+v, want {1 2 3 4}", c)
	}
}

func TestRGBEIsRLE(t *testing.T) {
	tests := []struct {
		name  string
		c     RGBE
		width uint32
		want  bool
	}{
		{"width 8", RGBE{2, 2, 0, 8}, 8, true},
		{"width 1024", RGBE{2, 2, 4, 0}, 1024, true},
		{"width 0x7fff", RGBE{2, 2, 0x7f, 0xff}, 0x7fff, true},
		{"width mismatch", RGBE{2, 2, 0, 8}, 9, false},
		{"high bit set", RGBE{2, 2, 0x80, 8}, 0x8008, false},
		{"old style pixel", RGBE{1, 1, 1, 128}, 384, false},
		{"wrong red", RGBE{1, 2, 0, 8}, 8, false},
		{"wrong green", RGBE{2, 3, 0, 8}, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsRLE(tt.width); got != tt.want {
				t.Errorf("IsRLE(%d) = %v, want %v", tt.width, got, tt.want)
			}
		})
	}
}

func TestRGBEZeroExponent(t *testing.T) {
	for _, c := range []RGBE{{0, 0, 0, 0}, {255, 255, 255, 0}, {1, 128, 200, 0}} {
		if got := c.RGB(); got != (RGB{}) {
			t.Errorf("%+v.RGB() = %+v, want black", c, got)
		}
		if c.Scale() != 0 {
			t.Errorf("%+v.Scale() = %v, want 0", c, c.Scale())
		}
	}
}

func TestRGBEScale(t *testing.T) {
	for e := 1; e < 256; e++ {
		c := RGBE{E: uint8(e)}
		want := float32(math.Ldexp(1, e-136))
		if got := c.Scale(); got != want {
			t.Errorf("Scale() for e=%d = %g, want %g", e, got, want)
		}
	}
}

func TestRGBEKnownValues(t *testing.T) {
	tests := []struct {
		c    RGBE
		want RGB
	}{
		// e=128 gives a scale of 2^-8.
		{RGBE{128, 128, 128, 128}, RGB{0.5, 0.5, 0.5}},
		{RGBE{255, 1, 0, 128}, RGB{255.0 / 256, 1.0 / 256, 0}},
		// e=136 gives a scale of 1.
		{RGBE{128, 128, 128, 136}, RGB{128, 128, 128}},
		{RGBE{1, 2, 3, 136}, RGB{1, 2, 3}},
		{RGBE{64, 128, 32, 129}, RGB{0.5, 1, 0.25}},
	}

	for _, tt := range tests {
		if got := tt.c.RGB(); got != tt.want {
			t.Errorf("%+v.RGB() = %+v, want %+v", tt.c, got, tt.want)
		}
	}
}

func TestRGBEMatchesDefinition(t *testing.T) {
	for e := 1; e < 256; e += 7 {
		for m := 0; m < 256; m += 5 {
			c := RGBE{uint8(m), uint8(255 - m), uint8(m / 2), uint8(e)}
			scale := float32(math.Ldexp(1, e-136))
			want := RGB{float32(c.R) * scale, float32(c.G) * scale, float32(c.B) * scale}
			if got := c.RGB(); got != want {
				t.Fatalf("%+v.RGB() = %+v, want %+v", c, got, want)
			}
		}
	}
}

func BenchmarkRGBEToRGB(b *testing.B) {
	px := testPixels(1024, 1, 1)
	var sink RGB
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, c := range px {
			sink = c.RGB()
		}
	}
	_ = sink
}
