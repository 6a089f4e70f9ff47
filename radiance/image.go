package radiance

import (
	"fmt"
	"math"
	"slices"
	"sync/atomic"
	"unsafe"
)

// pixelSize is the in-memory size of one decoded pixel.
const pixelSize = int64(unsafe.Sizeof(RGB{}))

// memoryLimit caps the pixel buffer of a single image in bytes
// (0 = unlimited).
var memoryLimit int64

// SetMemoryLimit sets the maximum pixel buffer size, in bytes, that a decode
// may allocate. If limit is 0, no limit is enforced.
// Returns the previous limit.
func SetMemoryLimit(limit int64) int64 {
	return atomic.SwapInt64(&memoryLimit, limit)
}

// MemoryLimit returns the current memory limit (0 = unlimited).
func MemoryLimit() int64 {
	return atomic.LoadInt64(&memoryLimit)
}

// Image is a decoded Radiance image.
//
// Pixels holds Width*Height linear RGB values in row-major order, row 0
// being the top scanline. The caller owns the image and releases it with
// Release once done.
type Image struct {
	Width  uint32
	Height uint32
	Pixels []RGB
	Header Header
}

// streamReserve is the number of pixels reserved up front when the size of
// the remaining input is unknown. Larger images grow row by row.
const streamReserve = 1 << 20

// newImage checks a width x height pixel buffer against the memory limit
// and reserves room for at most reserve pixels of it. Rows are added with
// appendRow as scanlines are decoded, so a header declaring more pixels
// than the input holds fails on the data rather than on the allocation.
func newImage(width, height uint32, reserve uint64) (*Image, error) {
	n := uint64(width) * uint64(height)
	if n > uint64(math.MaxInt64/pixelSize) || n > uint64(math.MaxInt) {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrAlloc, width, height)
	}
	size := int64(n) * pixelSize
	if limit := MemoryLimit(); limit > 0 && size > limit {
		return nil, &MemoryLimitExceededError{Requested: size, Limit: limit}
	}
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]RGB, 0, min(n, reserve)),
	}, nil
}

// appendRow extends Pixels by one scanline and returns it. The returned
// row must be fully overwritten.
func (img *Image) appendRow() []RGB {
	w := int(img.Width)
	n := len(img.Pixels)
	img.Pixels = slices.Grow(img.Pixels, w)[:n+w]
	return img.Pixels[n:]
}

// Release drops the pixel buffer and clears the dimensions. Calling it
// again, or on a nil image, does nothing.
func (img *Image) Release() {
	if img == nil {
		return
	}
	img.Pixels = nil
	img.Width = 0
	img.Height = 0
}

// Released reports whether Release has been called.
func (img *Image) Released() bool {
	return img.Pixels == nil && img.Width == 0 && img.Height == 0
}

// Row returns the pixels of scanline y.
func (img *Image) Row(y int) []RGB {
	w := int(img.Width)
	return img.Pixels[y*w : (y+1)*w]
}

// At returns the pixel at (x, y). Coordinates outside the image return
// black.
func (img *Image) At(x, y int) RGB {
	if x < 0 || y < 0 || x >= int(img.Width) || y >= int(img.Height) {
		return RGB{}
	}
	return img.Pixels[y*int(img.Width)+x]
}
