package radiance

import (
	"bytes"
	"fmt"
	"math/rand"
)

// encodePlane appends vals in the adaptive RLE scanline encoding, using runs
// for four or more repeated bytes and literal spans otherwise.
func encodePlane(dst, vals []byte) []byte {
	i := 0
	for i < len(vals) {
		run := 1
		for i+run < len(vals) && vals[i+run] == vals[i] && run < 127 {
			run++
		}
		if run >= 4 {
			dst = append(dst, byte(128+run), vals[i])
			i += run
			continue
		}

		start := i
		for i < len(vals) && i-start < 128 {
			if i+3 < len(vals) && vals[i] == vals[i+1] && vals[i] == vals[i+2] && vals[i] == vals[i+3] {
				break
			}
			i++
		}
		dst = append(dst, byte(i-start))
		dst = append(dst, vals[start:i]...)
	}
	return dst
}

// encodeScanline appends the RLE marker and four planes of one row.
func encodeScanline(dst []byte, row []RGBE) []byte {
	w := len(row)
	dst = append(dst, 2, 2, byte(w>>8), byte(w))
	plane := make([]byte, w)
	for k := 0; k < 4; k++ {
		for x, p := range row {
			plane[x] = [4]byte{p.R, p.G, p.B, p.E}[k]
		}
		dst = encodePlane(dst, plane)
	}
	return dst
}

// encodeHeader builds the text header of a file. extra lines go before the
// FORMAT line.
func encodeHeader(width, height int, extra ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("#?RADIANCE\n")
	for _, line := range extra {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.WriteString("FORMAT=32-bit_rle_rgbe\n\n")
	fmt.Fprintf(&buf, "-Y %d +X %d\n", height, width)
	return buf.Bytes()
}

// encodeFile builds a complete file from row-major pixels.
func encodeFile(width, height int, pixels []RGBE, extra ...string) []byte {
	data := encodeHeader(width, height, extra...)
	for y := 0; y < height; y++ {
		data = encodeScanline(data, pixels[y*width:(y+1)*width])
	}
	return data
}

// testPixels returns deterministic pixels mixing flat areas, noise and
// zero exponents.
func testPixels(width, height int, seed int64) []RGBE {
	rng := rand.New(rand.NewSource(seed))
	px := make([]RGBE, width*height)
	for i := range px {
		switch {
		case i%17 < 6:
			px[i] = RGBE{R: 200, G: 100, B: 50, E: 130}
		case i%23 == 0:
			px[i] = RGBE{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
		default:
			px[i] = RGBE{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				E: uint8(120 + rng.Intn(20)),
			}
		}
	}
	return px
}
