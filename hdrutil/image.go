package hdrutil

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/mrjoshuak/go-radiance/half"
	"github.com/mrjoshuak/go-radiance/radiance"
)

func init() {
	image.RegisterFormat("hdr", "#?", decodeImage, decodeImageConfig)
}

// decodeImage lets image.Decode read Radiance files as clamped RGBA64.
func decodeImage(r io.Reader) (image.Image, error) {
	img, err := radiance.Decode(r)
	if err != nil {
		return nil, err
	}
	defer img.Release()
	return ToRGBA64(img, 1), nil
}

func decodeImageConfig(r io.Reader) (image.Config, error) {
	cfg, err := radiance.DecodeConfig(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.RGBA64Model,
		Width:      int(cfg.Width),
		Height:     int(cfg.Height),
	}, nil
}

// clamp01 clamps v to [0, 1], mapping NaN to 0.
func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToRGBA64 quantises img to 16 bits per channel. Each component is
// multiplied by scale, clamped to [0, 1] and stored linearly; no tone
// curve or gamma is applied.
func ToRGBA64(img *radiance.Image, scale float32) *image.RGBA64 {
	w, h := int(img.Width), int(img.Height)
	out := image.NewRGBA64(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Row(y)
		pix := out.Pix[y*out.Stride : y*out.Stride+w*8]
		for x, p := range row {
			r := uint16(clamp01(p.R*scale)*0xffff + 0.5)
			g := uint16(clamp01(p.G*scale)*0xffff + 0.5)
			b := uint16(clamp01(p.B*scale)*0xffff + 0.5)
			o := pix[x*8 : x*8+8]
			o[0], o[1] = uint8(r>>8), uint8(r)
			o[2], o[3] = uint8(g>>8), uint8(g)
			o[4], o[5] = uint8(b>>8), uint8(b)
			o[6], o[7] = 0xff, 0xff
		}
	}
	return out
}

// ToHDR copies img into an hdr.RGB image so it can be used with the
// tone mappers and codecs of github.com/mdouchement/hdr.
func ToHDR(img *radiance.Image) *hdr.RGB {
	w, h := int(img.Width), int(img.Height)
	out := hdr.NewRGB(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x, p := range img.Row(y) {
			out.SetRGB(x, y, hdrcolor.RGB{R: float64(p.R), G: float64(p.G), B: float64(p.B)})
		}
	}
	return out
}

// ToHalf returns the pixels of img as interleaved half-float RGB triples.
// Components beyond the half range saturate at half.Max instead of
// becoming infinite.
func ToHalf(img *radiance.Image) []half.Half {
	vals := ToFloat32(img)
	limit := half.Max.Float32()
	for i, v := range vals {
		vals[i] = min(v, limit)
	}
	out := make([]half.Half, len(vals))
	half.FromFloat32Slice(out, vals)
	return out
}

// ToFloat32 returns the pixels of img as interleaved float32 RGB triples,
// the layout GPU texture uploads expect.
func ToFloat32(img *radiance.Image) []float32 {
	out := make([]float32, 3*len(img.Pixels))
	for i, p := range img.Pixels {
		out[3*i+0] = p.R
		out[3*i+1] = p.G
		out[3*i+2] = p.B
	}
	return out
}

// ExposureScale returns the factor that maps decoded pixel values back to
// the radiance recorded before any EXPOSURE adjustment.
func ExposureScale(h *radiance.Header) float32 {
	e := h.Exposure()
	if e == 0 || math.IsNaN(e) || math.IsInf(e, 0) {
		return 1
	}
	return float32(1 / e)
}
