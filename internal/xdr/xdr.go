// Package xdr provides the byte-level readers the Radiance decoder consumes.
//
// A Radiance file is a text header followed by binary scanline data, so the
// decoder needs four primitives: an exact-length read, a bounded
// newline-delimited line read, a single-byte read and a fixed 4-byte quad read.
// Reader serves them from memory; StreamReader serves them from an io.Reader.
package xdr

import (
	"bufio"
	"errors"
	"io"
)

var (
	// ErrShortBuffer is returned when a read cannot complete because the
	// in-memory data ends first.
	ErrShortBuffer = errors.New("xdr: buffer too short")

	// ErrNegativeSize is returned when a size parameter is negative.
	ErrNegativeSize = errors.New("xdr: negative size")

	// ErrLineTooLong is returned when a line exceeds the caller's bound
	// before its delimiter is found.
	ErrLineTooLong = errors.New("xdr: line too long")
)

// LineDelimiter terminates header and resolution lines.
const LineDelimiter = '\n'

// Reader provides bounds-checked reads from a byte slice.
// It maintains a read position that only moves forward on success.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader from a byte slice.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, pos: 0}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return len(r.data) - r.pos
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return int64(r.pos)
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrShortBuffer
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytesInto fills dst completely or fails without consuming anything.
func (r *Reader) ReadBytesInto(dst []byte) error {
	n := len(dst)
	if r.pos+n > len(r.data) {
		return ErrShortBuffer
	}
	copy(dst, r.data[r.pos:r.pos+n])
	r.pos += n
	return nil
}

// ReadQuad reads 4 bytes by value.
func (r *Reader) ReadQuad() ([4]byte, error) {
	var q [4]byte
	if r.pos+4 > len(r.data) {
		return q, ErrShortBuffer
	}
	copy(q[:], r.data[r.pos:r.pos+4])
	r.pos += 4
	return q, nil
}

// ReadLine reads up to the next LineDelimiter and returns the line without
// it. The line may hold at most max bytes. The returned slice aliases the
// underlying data and must not be modified.
func (r *Reader) ReadLine(max int) ([]byte, error) {
	if max < 0 {
		return nil, ErrNegativeSize
	}
	start := r.pos
	for i := start; i < len(r.data); i++ {
		if r.data[i] == LineDelimiter {
			r.pos = i + 1
			return r.data[start:i], nil
		}
		if i-start >= max {
			return nil, ErrLineTooLong
		}
	}
	return nil, ErrShortBuffer
}

// StreamReader provides the same reads as Reader on top of an io.Reader.
// Reads are buffered, so the underlying reader is advanced past the last
// byte consumed through StreamReader.
type StreamReader struct {
	br   *bufio.Reader
	line []byte
	n    int64
}

// NewStreamReader wraps src. If src is already a *bufio.Reader it is used
// directly.
func NewStreamReader(src io.Reader) *StreamReader {
	br, ok := src.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(src, 64<<10)
	}
	return &StreamReader{br: br}
}

// Pos returns the number of bytes consumed so far.
func (s *StreamReader) Pos() int64 {
	return s.n
}

// ReadByte reads a single byte.
func (s *StreamReader) ReadByte() (byte, error) {
	b, err := s.br.ReadByte()
	if err != nil {
		return 0, err
	}
	s.n++
	return b, nil
}

// ReadBytesInto fills dst completely. A stream that ends early yields
// io.ErrUnexpectedEOF (or io.EOF when nothing was read).
func (s *StreamReader) ReadBytesInto(dst []byte) error {
	n, err := io.ReadFull(s.br, dst)
	s.n += int64(n)
	return err
}

// ReadQuad reads 4 bytes by value.
func (s *StreamReader) ReadQuad() ([4]byte, error) {
	var q [4]byte
	err := s.ReadBytesInto(q[:])
	return q, err
}

// ReadLine reads up to the next LineDelimiter and returns the line without
// it. The line may hold at most max bytes. The returned slice is only valid
// until the next call.
func (s *StreamReader) ReadLine(max int) ([]byte, error) {
	if max < 0 {
		return nil, ErrNegativeSize
	}
	s.line = s.line[:0]
	for {
		b, err := s.br.ReadByte()
		if err != nil {
			if err == io.EOF && len(s.line) > 0 {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		s.n++
		if b == LineDelimiter {
			return s.line, nil
		}
		if len(s.line) >= max {
			return nil, ErrLineTooLong
		}
		s.line = append(s.line, b)
	}
}
