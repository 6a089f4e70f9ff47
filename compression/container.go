package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrContainerCorrupted is returned when a recognised container header
// cannot be opened.
var ErrContainerCorrupted = errors.New("compression: corrupted container")

// Container identifies an outer compression layer wrapped around an image.
type Container int

const (
	ContainerNone Container = iota
	ContainerGzip
	ContainerZlib
	ContainerZstd
	ContainerLZ4
)

// String returns the conventional name of the container.
func (c Container) String() string {
	switch c {
	case ContainerNone:
		return "none"
	case ContainerGzip:
		return "gzip"
	case ContainerZlib:
		return "zlib"
	case ContainerZstd:
		return "zstd"
	case ContainerLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Container(%d)", int(c))
	}
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// DetectContainer reports which container, if any, the leading bytes of a
// stream belong to. A Radiance signature starts with '#' and is never
// mistaken for a container.
func DetectContainer(head []byte) Container {
	switch {
	case bytes.HasPrefix(head, magicZstd):
		return ContainerZstd
	case bytes.HasPrefix(head, magicLZ4):
		return ContainerLZ4
	case bytes.HasPrefix(head, magicGzip):
		return ContainerGzip
	case isZlibHeader(head):
		return ContainerZlib
	}
	return ContainerNone
}

// isZlibHeader validates the two byte zlib header: deflate method, window
// size at most 32K and a valid FCHECK.
func isZlibHeader(head []byte) bool {
	if len(head) < 2 {
		return false
	}
	cmf, flg := head[0], head[1]
	if cmf&0x0f != 8 || cmf>>4 > 7 {
		return false
	}
	return (uint16(cmf)<<8|uint16(flg))%31 == 0
}

// NewReader sniffs src for a compression container and returns a reader
// over the decompressed bytes. Streams without a recognised container are
// passed through. The returned ReadCloser releases decoder resources only;
// it does not close src.
func NewReader(src io.Reader) (io.ReadCloser, Container, error) {
	br := bufio.NewReader(src)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, ContainerNone, err
	}

	c := DetectContainer(head)
	switch c {
	case ContainerGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("%w: gzip: %v", ErrContainerCorrupted, err)
		}
		return zr, c, nil
	case ContainerZlib:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("%w: zlib: %v", ErrContainerCorrupted, err)
		}
		return zr, c, nil
	case ContainerZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("%w: zstd: %v", ErrContainerCorrupted, err)
		}
		return dec.IOReadCloser(), c, nil
	case ContainerLZ4:
		return io.NopCloser(lz4.NewReader(br)), c, nil
	}
	return io.NopCloser(br), ContainerNone, nil
}
