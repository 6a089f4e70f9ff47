package radiance

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrjoshuak/go-radiance/internal/xdr"
)

// Header limits and tokens
const (
	signatureLen      = 11
	maxHeaderLine     = 256
	maxResolutionLine = 64

	formatToken = "FORMAT"
	// FormatRLERGBE is the only pixel format this package decodes.
	FormatRLERGBE = "32-bit_rle_rgbe"
)

var (
	signatureRadiance = []byte("#?RADIANCE\n")
	signatureRGBE     = []byte("#?RGBE\n")
)

// Standard header variable names
const (
	VarExposure    = "EXPOSURE"
	VarGamma       = "GAMMA"
	VarSoftware    = "SOFTWARE"
	VarPixelAspect = "PIXASPECT"
	VarPrimaries   = "PRIMARIES"
)

// Header holds the text header of a Radiance file.
type Header struct {
	// Format is the declared pixel format, always FormatRLERGBE after a
	// successful decode.
	Format string
	// Lines holds every non-blank header line after the signature, in file
	// order, including the FORMAT line and comments.
	Lines []string
}

// Value returns the value of the last "NAME=value" line for name.
func (h *Header) Value(name string) (string, bool) {
	values := h.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// Values returns the values of all "NAME=value" lines for name, in order.
func (h *Header) Values(name string) []string {
	var out []string
	prefix := name + "="
	for _, line := range h.Lines {
		if strings.HasPrefix(line, prefix) {
			out = append(out, strings.TrimSpace(line[len(prefix):]))
		}
	}
	return out
}

// Exposure returns the product of all EXPOSURE values, or 1 when there are
// none. Dividing decoded pixels by it recovers the original radiance.
// Unparseable values are ignored.
func (h *Header) Exposure() float64 {
	return h.product(VarExposure)
}

// PixelAspect returns the product of all PIXASPECT values, or 1.
func (h *Header) PixelAspect() float64 {
	return h.product(VarPixelAspect)
}

func (h *Header) product(name string) float64 {
	p := 1.0
	for _, v := range h.Values(name) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		p *= f
	}
	return p
}

// Gamma returns the GAMMA value, if present and numeric.
func (h *Header) Gamma() (float64, bool) {
	v, ok := h.Value(VarGamma)
	if !ok {
		return 0, false
	}
	g, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return g, true
}

// Software returns the SOFTWARE value, or "".
func (h *Header) Software() string {
	v, _ := h.Value(VarSoftware)
	return v
}

// Primaries returns the CIE (x, y) chromaticities of red, green, blue and
// white from the PRIMARIES line.
func (h *Header) Primaries() ([8]float64, bool) {
	var p [8]float64
	v, ok := h.Value(VarPrimaries)
	if !ok {
		return p, false
	}
	fields := strings.Fields(v)
	if len(fields) != len(p) {
		return p, false
	}
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return p, false
		}
		p[i] = x
	}
	return p, true
}

// source is the byte-stream reader the decoder consumes.
type source interface {
	ReadByte() (byte, error)
	ReadBytesInto(dst []byte) error
	ReadQuad() ([4]byte, error)
	ReadLine(max int) ([]byte, error)
	// Pos returns the number of bytes consumed so far.
	Pos() int64
}

// validateSignature consumes the 11 signature bytes. For the short
// "#?RGBE\n" form the trailing bytes already belong to the first header
// line; they are returned so the caller can replay them.
func validateSignature(r source) ([]byte, error) {
	var sig [signatureLen]byte
	if err := r.ReadBytesInto(sig[:]); err != nil {
		return nil, fmt.Errorf("radiance: reading signature: %w", err)
	}
	switch {
	case bytes.Equal(sig[:], signatureRadiance):
		return nil, nil
	case bytes.HasPrefix(sig[:], signatureRGBE):
		return append([]byte(nil), sig[len(signatureRGBE):]...), nil
	}
	return nil, ErrNotHDRFile
}

// scanMetadata reads header lines up to the blank line that ends the
// header block.
func scanMetadata(r source) (Header, error) {
	var h Header
	for {
		line, err := r.ReadLine(maxHeaderLine)
		if err != nil {
			if errors.Is(err, xdr.ErrLineTooLong) {
				return h, fmt.Errorf("%w: header line longer than %d bytes", ErrInvalidDataFormat, maxHeaderLine)
			}
			return h, fmt.Errorf("radiance: reading header: %w", err)
		}
		if len(line) == 0 {
			break
		}
		if bytes.HasPrefix(line, []byte(formatToken)) {
			if !bytes.HasSuffix(line, []byte(FormatRLERGBE)) {
				return h, fmt.Errorf("%w: unsupported pixel format %q", ErrInvalidDataFormat, line)
			}
			h.Format = FormatRLERGBE
		}
		h.Lines = append(h.Lines, string(line))
	}
	if h.Format == "" {
		return h, fmt.Errorf("%w: missing %s line", ErrInvalidDataFormat, formatToken)
	}
	return h, nil
}

// parseResolution reads the "-Y <height> +X <width>" line. Its leading sign
// is read on its own before the rest of the line.
func parseResolution(r source) (width, height uint32, err error) {
	sign, err := r.ReadByte()
	if err != nil {
		return 0, 0, fmt.Errorf("radiance: reading resolution: %w", err)
	}
	rest, err := r.ReadLine(maxResolutionLine - 1)
	if err != nil {
		if errors.Is(err, xdr.ErrLineTooLong) {
			return 0, 0, fmt.Errorf("%w: resolution line longer than %d bytes", ErrInvalidDataFormat, maxResolutionLine)
		}
		return 0, 0, fmt.Errorf("radiance: reading resolution: %w", err)
	}
	line := string(sign) + string(rest)

	s, ok := strings.CutPrefix(line, "-Y ")
	if !ok {
		return 0, 0, fmt.Errorf("%w: unsupported resolution %q", ErrInvalidDataFormat, line)
	}
	ys, s, ok := strings.Cut(s, " ")
	if !ok {
		return 0, 0, fmt.Errorf("%w: malformed resolution %q", ErrInvalidDataFormat, line)
	}
	xs, ok := strings.CutPrefix(s, "+X ")
	if !ok {
		return 0, 0, fmt.Errorf("%w: unsupported resolution %q", ErrInvalidDataFormat, line)
	}

	y, err := strconv.ParseUint(ys, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("radiance: resolution height: %w", err)
	}
	x, err := strconv.ParseUint(xs, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("radiance: resolution width: %w", err)
	}
	return uint32(x), uint32(y), nil
}

// carrySource replays bytes consumed ahead of time before reading from the
// wrapped source.
type carrySource struct {
	source
	carry []byte
}

// Pos excludes carried bytes that have not been replayed yet.
func (c *carrySource) Pos() int64 {
	return c.source.Pos() - int64(len(c.carry))
}

func (c *carrySource) ReadByte() (byte, error) {
	if len(c.carry) == 0 {
		return c.source.ReadByte()
	}
	b := c.carry[0]
	c.carry = c.carry[1:]
	return b, nil
}

func (c *carrySource) ReadBytesInto(dst []byte) error {
	n := copy(dst, c.carry)
	c.carry = c.carry[n:]
	if n == len(dst) {
		return nil
	}
	return c.source.ReadBytesInto(dst[n:])
}

func (c *carrySource) ReadQuad() ([4]byte, error) {
	var q [4]byte
	err := c.ReadBytesInto(q[:])
	return q, err
}

func (c *carrySource) ReadLine(max int) ([]byte, error) {
	if len(c.carry) == 0 {
		return c.source.ReadLine(max)
	}
	if i := bytes.IndexByte(c.carry, xdr.LineDelimiter); i >= 0 {
		if i > max {
			return nil, xdr.ErrLineTooLong
		}
		line := c.carry[:i]
		c.carry = c.carry[i+1:]
		return line, nil
	}
	if len(c.carry) > max {
		return nil, xdr.ErrLineTooLong
	}
	head := c.carry
	c.carry = nil
	rest, err := c.source.ReadLine(max - len(head))
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), head...), rest...), nil
}
