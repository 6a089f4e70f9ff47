// Package compression provides the scanline codec and stream containers used
// by Radiance HDR files.
package compression

import (
	"errors"
)

// RLE decoding errors
var (
	ErrRLEOverflow      = errors.New("compression: RLE span exceeds scanline width")
	ErrRLEInvalidLayout = errors.New("compression: invalid RLE plane layout")
)

// RLE constants
const (
	// rleRunFlag separates literal spans (count <= 128) from runs.
	rleRunFlag = 128
	// rleMaxLiteral is the longest literal span a single control byte can
	// describe.
	rleMaxLiteral = 128
)

// ByteSource is the subset of a byte-stream reader the plane decoder needs.
type ByteSource interface {
	ReadByte() (byte, error)
	ReadBytesInto(dst []byte) error
}

// RLEDecodePlane decodes one adaptive-RLE encoded channel plane of a
// scanline from src.
//
// The encoding uses an unsigned control byte:
//   - count > 128: the next byte is repeated (count-128) times (run)
//   - count <= 128: the next count bytes are copied literally
//
// Decoded byte x of the plane is written to dst[x*stride+plane], so four
// planes decoded with stride 4 leave dst holding interleaved RGBE quads.
// A run or literal span longer than the space left in the plane fails with
// ErrRLEOverflow and nothing past the plane is written. Errors from src are
// returned unchanged.
func RLEDecodePlane(src ByteSource, dst []byte, plane, stride, width int) error {
	if plane < 0 || stride <= plane || width < 0 {
		return ErrRLEInvalidLayout
	}
	if width > 0 && len(dst) < (width-1)*stride+plane+1 {
		return ErrRLEInvalidLayout
	}

	var literal [rleMaxLiteral]byte

	i := 0
	for i < width {
		count, err := src.ReadByte()
		if err != nil {
			return err
		}

		if count > rleRunFlag {
			// Run: repeat the next byte (count - 128) times
			runLength := int(count) - rleRunFlag
			if runLength > width-i {
				return ErrRLEOverflow
			}
			val, err := src.ReadByte()
			if err != nil {
				return err
			}
			for end := i + runLength; i < end; i++ {
				dst[i*stride+plane] = val
			}
			continue
		}

		// Literal: copy the next count bytes
		literalLength := int(count)
		if literalLength > width-i {
			return ErrRLEOverflow
		}
		if literalLength == 0 {
			continue
		}
		span := literal[:literalLength]
		if err := src.ReadBytesInto(span); err != nil {
			return err
		}
		for _, b := range span {
			dst[i*stride+plane] = b
			i++
		}
	}

	return nil
}
