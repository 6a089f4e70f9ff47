package compression

import (
	"bytes"
	"testing"

	"github.com/mrjoshuak/go-radiance/internal/xdr"
)

// FuzzRLEDecodePlane tests plane decoding with arbitrary data.
func FuzzRLEDecodePlane(f *testing.F) {
	f.Add([]byte{}, uint8(4))
	f.Add([]byte{0x00}, uint8(1))
	f.Add([]byte{0x01, 0x41}, uint8(1))
	f.Add([]byte{0x80}, uint8(1))
	f.Add([]byte{0x81, 0x41}, uint8(1))
	f.Add([]byte{0xff, 0x41}, uint8(127))
	f.Add([]byte{0x04, 0x41, 0x42, 0x43, 0x44}, uint8(4))

	// Malicious seeds
	f.Add([]byte{0xff, 0xff, 0xff, 0xff}, uint8(8))
	f.Add(bytes.Repeat([]byte{0x00}, 1000), uint8(8))
	f.Add(bytes.Repeat([]byte{0xff, 0x00}, 1000), uint8(255))

	f.Fuzz(func(t *testing.T, data []byte, w uint8) {
		width := int(w)
		const guard = 8
		dst := make([]byte, width*4+guard)
		for i := width * 4; i < len(dst); i++ {
			dst[i] = 0x5A
		}
		_ = RLEDecodePlane(xdr.NewReader(data), dst, 3, 4, width)
		for i := width * 4; i < len(dst); i++ {
			if dst[i] != 0x5A {
				t.Fatalf("decoder wrote past the plane at %d", i)
			}
		}
	})
}

// FuzzDetectContainer checks that a Radiance signature never sniffs as a
// container.
func FuzzDetectContainer(f *testing.F) {
	f.Add([]byte("#?RADIANCE\n"))
	f.Add([]byte{0x1f, 0x8b, 0x08})
	f.Add([]byte{0x78, 0x9c})

	f.Fuzz(func(t *testing.T, data []byte) {
		c := DetectContainer(data)
		if len(data) > 0 && data[0] == '#' && c != ContainerNone {
			t.Fatalf("%q detected as %s", data, c)
		}
	})
}
