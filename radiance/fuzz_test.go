package radiance

import (
	"bytes"
	"testing"
)

// FuzzDecodeBytes tests that arbitrary input never panics and that a
// successful decode always yields a complete pixel buffer.
func FuzzDecodeBytes(f *testing.F) {
	f.Add(onePixelFile)
	f.Add(encodeFile(9, 3, testPixels(9, 3, 1)))
	f.Add([]byte("#?RGBE\n\n-Y 1 +X 1\n"))
	f.Add([]byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 2 +X 2\n\x02\x02\x00\x02\xff"))
	f.Add([]byte{})
	f.Add([]byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 200000 +X 200000\n"))
	f.Add([]byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 4000000000 +X 32767\n\x02\x02\x7f\xff"))

	f.Fuzz(func(t *testing.T, data []byte) {
		img, err := DecodeBytes(data)
		if err != nil {
			if img != nil {
				t.Fatal("failed decode returned an image")
			}
			return
		}
		if uint64(len(img.Pixels)) != uint64(img.Width)*uint64(img.Height) {
			t.Fatalf("len(Pixels) = %d for %dx%d", len(img.Pixels), img.Width, img.Height)
		}

		stream, err := Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("stream decode failed where memory decode succeeded: %v", err)
		}
		for i := range img.Pixels {
			if img.Pixels[i] != stream.Pixels[i] {
				t.Fatalf("pixel %d differs: %+v vs %+v", i, img.Pixels[i], stream.Pixels[i])
			}
		}
	})
}
