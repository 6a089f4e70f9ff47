package radiance

import (
	"errors"
	"fmt"

	"github.com/mrjoshuak/go-radiance/compression"
)

// planes is the number of byte planes per scanline: R, G, B and E.
const planes = 4

// decodePixels decodes img.Height scanlines from r into img.Pixels, top row
// first, reusing one scratch buffer for every row.
func decodePixels(r source, img *Image) error {
	width := int(img.Width)
	buf := getScanline(width * planes)
	defer putScanline(buf)
	scratch := *buf

	for y := 0; y < int(img.Height); y++ {
		offset := r.Pos()
		if err := decodeScanline(r, scratch, img.Width); err != nil {
			return fmt.Errorf("scanline %d at byte %d: %w", y, offset, err)
		}
		row := img.appendRow()
		for x := range row {
			q := scratch[x*planes : x*planes+planes]
			row[x] = RGBE{R: q[0], G: q[1], B: q[2], E: q[3]}.RGB()
		}
	}
	return nil
}

// maxRLEWidth is the widest scanline an RLE marker can declare: the high
// byte of the width must leave bit 7 clear.
const maxRLEWidth = 0x7fff

// minScanlineBytes is the fewest bytes one encoded scanline of the given
// width can occupy: the marker plus runs of 127 in each plane.
func minScanlineBytes(width uint32) uint64 {
	return 4 + planes*2*((uint64(width)+126)/127)
}

// backedPixels bounds how many pixels of a width-wide image n bytes of
// scanline data can hold.
func backedPixels(width uint32, n int64) uint64 {
	if n <= 0 {
		return 0
	}
	return uint64(n) / minScanlineBytes(width) * uint64(width)
}

// decodeScanline reads one new-style RLE scanline into scratch as
// interleaved RGBE quads.
func decodeScanline(r source, scratch []byte, width uint32) error {
	q, err := r.ReadQuad()
	if err != nil {
		return fmt.Errorf("radiance: reading scanline marker: %w", err)
	}
	marker := RGBEFromBytes(q)
	if !marker.IsRLE(width) {
		return fmt.Errorf("%w: scanline marker %v is not an RLE marker for width %d",
			ErrInvalidDataFormat, q, width)
	}

	for plane := 0; plane < planes; plane++ {
		err := compression.RLEDecodePlane(r, scratch, plane, planes, int(width))
		if err == nil {
			continue
		}
		if errors.Is(err, compression.ErrRLEOverflow) {
			return fmt.Errorf("%w: plane %d: %v", ErrInvalidDataFormat, plane, err)
		}
		return fmt.Errorf("radiance: reading plane %d: %w", plane, err)
	}
	return nil
}
