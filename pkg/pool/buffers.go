// Package pool reuses render buffers across requests and socket diffs.
package pool

import (
	"bytes"
	"sync"
)

// maxPooledCap bounds the buffers kept for reuse.
const maxPooledCap = 64 * 1024

var buffers = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// GetBuffer retrieves an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := buffers.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool. Oversized buffers are dropped.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledCap {
		return
	}
	buffers.Put(buf)
}
