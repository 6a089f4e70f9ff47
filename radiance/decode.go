// Package radiance decodes Radiance RGBE (.hdr) high dynamic range images.
//
// A Radiance file starts with a text header: the "#?RADIANCE" signature,
// variable lines such as FORMAT and EXPOSURE, a blank line and a resolution
// line. The pixel data that follows is a sequence of scanlines, each
// run-length encoded as four separate byte planes (R, G, B and a shared
// exponent E). Decoding yields linear float32 RGB values.
//
// Only the standard top-to-bottom, left-to-right orientation ("-Y h +X w")
// and the new-style RLE scanline encoding are supported.
package radiance

import (
	"fmt"
	"io"
	"os"

	"github.com/mrjoshuak/go-radiance/compression"
	"github.com/mrjoshuak/go-radiance/internal/xdr"
)

// Config is the part of a Radiance file that precedes the pixel data.
type Config struct {
	Width  uint32
	Height uint32
	Header Header
}

// Decode reads a Radiance image from r.
//
// Reads from r are buffered, so r is left positioned past the image data.
// For data already in memory DecodeBytes is faster.
func Decode(r io.Reader) (*Image, error) {
	return decode(xdr.NewStreamReader(r))
}

// DecodeBytes decodes a Radiance image held entirely in memory.
func DecodeBytes(data []byte) (*Image, error) {
	return decode(xdr.NewReader(data))
}

// maxBufferedFile is the largest regular file DecodeFile reads into memory
// before decoding. Larger files are streamed.
const maxBufferedFile = 256 << 20

// DecodeFile decodes a Radiance image from an already open file, starting
// at its current offset. The file is not closed.
//
// Regular files up to 256 MiB, and no larger than the memory limit when one
// is set, are read whole and decoded as with DecodeBytes.
func DecodeFile(f *os.File) (*Image, error) {
	img, err := decodeFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}
	return img, nil
}

func decodeFile(f *os.File) (*Image, error) {
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxBufferedFile {
		return Decode(f)
	}
	if limit := MemoryLimit(); limit > 0 && info.Size() > limit {
		return Decode(f)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("radiance: reading file: %w", err)
	}
	return DecodeBytes(data)
}

// OpenFile opens the named file and decodes it.
func OpenFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeFile(f)
}

// DecodeCompressed decodes a Radiance image that may be wrapped in a gzip,
// zlib, zstd or lz4 container. Plain streams are decoded as with Decode.
func DecodeCompressed(r io.Reader) (*Image, error) {
	rc, container, err := compression.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("radiance: opening %s container: %w", container, err)
	}
	defer rc.Close()
	return Decode(rc)
}

// DecodeConfig reads the header and resolution without decoding pixels.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg, _, err := readConfig(xdr.NewStreamReader(r))
	return cfg, err
}

// readConfig runs the signature check, the header scan and the resolution
// parse, in that order. It returns the source pixel data must be read from.
func readConfig(r source) (Config, source, error) {
	carry, err := validateSignature(r)
	if err != nil {
		return Config{}, nil, err
	}
	if len(carry) > 0 {
		r = &carrySource{source: r, carry: carry}
	}

	h, err := scanMetadata(r)
	if err != nil {
		return Config{}, nil, err
	}
	width, height, err := parseResolution(r)
	if err != nil {
		return Config{}, nil, err
	}
	return Config{Width: width, Height: height, Header: h}, r, nil
}

// releaseOnError frees an image whose decode failed.
var releaseOnError = (*Image).Release

// decode is the single decoding path behind every entry point.
func decode(src source) (*Image, error) {
	cfg, r, err := readConfig(src)
	if err != nil {
		return nil, err
	}

	if cfg.Height > 0 && cfg.Width > maxRLEWidth {
		return nil, fmt.Errorf("%w: width %d exceeds the largest run-length encoded scanline (%d)",
			ErrInvalidDataFormat, cfg.Width, maxRLEWidth)
	}

	reserve := uint64(streamReserve)
	if n, ok := sourceLen(r); ok {
		reserve = backedPixels(cfg.Width, n)
	}
	img, err := newImage(cfg.Width, cfg.Height, reserve)
	if err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			releaseOnError(img)
		}
	}()
	img.Header = cfg.Header

	if err := decodePixels(r, img); err != nil {
		return nil, err
	}
	ok = true
	return img, nil
}

// sourceLen reports how many unread bytes r holds, when r is in memory.
func sourceLen(r source) (int64, bool) {
	switch s := r.(type) {
	case *carrySource:
		n, ok := sourceLen(s.source)
		return n + int64(len(s.carry)), ok
	case interface{ Len() int }:
		return int64(s.Len()), true
	}
	return 0, false
}
