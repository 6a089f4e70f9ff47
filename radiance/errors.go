package radiance

import (
	"errors"
	"fmt"
	"strconv"
)

// Decoding errors. Every failure aborts the whole decode; wrapped causes
// (I/O errors, *strconv.NumError) stay reachable through errors.Is/As.
var (
	ErrNotHDRFile        = errors.New("radiance: not a Radiance HDR file")
	ErrInvalidDataFormat = errors.New("radiance: invalid data format")
	ErrAlloc             = errors.New("radiance: pixel buffer allocation failed")
)

// MemoryLimitExceededError is returned when the pixel buffer of an image
// would exceed the limit set with SetMemoryLimit.
type MemoryLimitExceededError struct {
	Requested int64
	Limit     int64
}

func (e *MemoryLimitExceededError) Error() string {
	return fmt.Sprintf("radiance: memory limit exceeded: %d bytes requested, limit %d", e.Requested, e.Limit)
}

// Unwrap reports the error as an allocation failure.
func (e *MemoryLimitExceededError) Unwrap() error {
	return ErrAlloc
}

// ErrorKind is the closed set of failure categories a decode can end in.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotHDRFile
	KindInvalidDataFormat
	KindAlloc
	KindIO
	KindParseInt
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotHDRFile:
		return "NotHDRFile"
	case KindInvalidDataFormat:
		return "InvalidDataFormat"
	case KindAlloc:
		return "Alloc"
	case KindIO:
		return "Io"
	case KindParseInt:
		return "ParseInt"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// KindOf classifies an error returned by this package. Errors that are not
// one of the format, allocation or integer parse failures are I/O failures
// of the underlying stream.
func KindOf(err error) ErrorKind {
	var numErr *strconv.NumError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotHDRFile):
		return KindNotHDRFile
	case errors.Is(err, ErrInvalidDataFormat):
		return KindInvalidDataFormat
	case errors.Is(err, ErrAlloc):
		return KindAlloc
	case errors.As(err, &numErr):
		return KindParseInt
	default:
		return KindIO
	}
}
