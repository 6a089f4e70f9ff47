package radiance

import (
	"sync"
	"sync/atomic"
)

// scanlinePool recycles scanline scratch buffers between decodes.
var scanlinePool = sync.Pool{
	New: func() interface{} {
		atomic.AddInt64(&scanlineMisses, 1)
		return new([]byte)
	},
}

var (
	scanlineGets   int64 // atomic
	scanlineMisses int64 // atomic
)

// getScanline returns a scratch buffer of exactly size bytes.
func getScanline(size int) *[]byte {
	atomic.AddInt64(&scanlineGets, 1)
	buf := scanlinePool.Get().(*[]byte)
	if cap(*buf) < size {
		*buf = make([]byte, size)
	}
	*buf = (*buf)[:size]
	return buf
}

// putScanline returns a scratch buffer to the pool.
func putScanline(buf *[]byte) {
	if buf == nil {
		return
	}
	scanlinePool.Put(buf)
}

// ScanlinePoolStats returns how many scratch buffers were requested and how
// many of those could not be served from the pool.
func ScanlinePoolStats() (gets, misses int64) {
	return atomic.LoadInt64(&scanlineGets), atomic.LoadInt64(&scanlineMisses)
}
