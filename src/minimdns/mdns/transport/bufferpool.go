package transport

import (
	"sync"
)

// bufferSize is the size of each pooled buffer. It is large enough for any
// UDP payload.
const bufferSize = 65536

// buffers holds pointers to buffers, so that returning a buffer to the pool
// does not allocate.
var buffers = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, bufferSize)
		return &buf
	},
}

// getBuffer fetches a full-length buffer from the pool.
func getBuffer() *[]byte {
	return buffers.Get().(*[]byte)
}

// putBuffer returns buf to the pool. It is a no-op if buf is nil.
func putBuffer(buf *[]byte) {
	if buf == nil || cap(*buf) < bufferSize {
		return
	}

	*buf = (*buf)[:bufferSize]
	buffers.Put(buf)
}
