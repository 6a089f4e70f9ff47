package hdrutil

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/mrjoshuak/go-radiance/half"
	"github.com/mrjoshuak/go-radiance/radiance"
)

func TestToRGBA64(t *testing.T) {
	img := &radiance.Image{
		Width:  3,
		Height: 1,
		Pixels: []radiance.RGB{
			{R: 0, G: 0.5, B: 1},
			{R: 2, G: -1, B: 0.25},
			{R: 1e30, G: 0, B: 0},
		},
	}

	out := ToRGBA64(img, 1)
	if out.Bounds() != image.Rect(0, 0, 3, 1) {
		t.Fatalf("Bounds() = %v", out.Bounds())
	}

	tests := []struct {
		x    int
		want color.RGBA64
	}{
		{0, color.RGBA64{R: 0, G: 0x8000, B: 0xffff, A: 0xffff}},
		{1, color.RGBA64{R: 0xffff, G: 0, B: 0x4000, A: 0xffff}},
		{2, color.RGBA64{R: 0xffff, G: 0, B: 0, A: 0xffff}},
	}
	for _, tt := range tests {
		if got := out.RGBA64At(tt.x, 0); got != tt.want {
			t.Errorf("RGBA64At(%d, 0) = %v, want %v", tt.x, got, tt.want)
		}
	}

	dim := ToRGBA64(img, 0.5)
	if got := dim.RGBA64At(0, 0).B; got != 0x8000 {
		t.Errorf("scaled B = 0x%04X, want 0x8000", got)
	}
}

func TestToHDR(t *testing.T) {
	img := decodeTestImage(t, 5, 3)
	out := ToHDR(img)
	if out.Bounds() != image.Rect(0, 0, 5, 3) {
		t.Fatalf("Bounds() = %v", out.Bounds())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			r, g, b, _ := out.HDRAt(x, y).HDRRGBA()
			p := img.At(x, y)
			if r != float64(p.R) || g != float64(p.G) || b != float64(p.B) {
				t.Errorf("HDRAt(%d, %d) = (%v, %v, %v), want %+v", x, y, r, g, b, p)
			}
		}
	}
}

func TestToHalf(t *testing.T) {
	img := &radiance.Image{
		Width:  2,
		Height: 1,
		Pixels: []radiance.RGB{{R: 1, G: 0.5, B: 0}, {R: 1e6, G: 65504, B: 2}},
	}
	got := ToHalf(img)
	want := []half.Half{0x3C00, 0x3800, 0, half.Max, half.Max, 0x4000}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = 0x%04X, want 0x%04X", i, got[i], want[i])
		}
	}
}

func TestToFloat32(t *testing.T) {
	img := decodeTestImage(t, 2, 2)
	got := ToFloat32(img)
	want := []float32{0, 0, 0, 1, 0, 1, 0, 1, 1, 1, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExposureScale(t *testing.T) {
	tests := []struct {
		lines []string
		want  float32
	}{
		{nil, 1},
		{[]string{"EXPOSURE=2"}, 0.5},
		{[]string{"EXPOSURE=2", "EXPOSURE=4"}, 0.125},
		{[]string{"EXPOSURE=0"}, 1},
	}
	for _, tt := range tests {
		h := radiance.Header{Lines: tt.lines}
		if got := ExposureScale(&h); got != tt.want {
			t.Errorf("ExposureScale(%q) = %v, want %v", tt.lines, got, tt.want)
		}
	}
}

func TestImageDecodeRegistration(t *testing.T) {
	data := encodeTestFile(6, 4)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.DecodeConfig() error = %v", err)
	}
	if format != "hdr" || cfg.Width != 6 || cfg.Height != 4 {
		t.Errorf("DecodeConfig() = %+v, %q", cfg, format)
	}

	m, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.Decode() error = %v", err)
	}
	if format != "hdr" {
		t.Errorf("format = %q", format)
	}
	// Pixel (1, 0) is RGB (1, 0, 1), which clamps to full red and blue.
	r, g, b, a := m.At(1, 0).RGBA()
	if r != 0xffff || g != 0 || b != 0xffff || a != 0xffff {
		t.Errorf("At(1, 0) = %d %d %d %d", r, g, b, a)
	}
}
