package ports

import (
	"errors"
	"io"
)

// ErrFinished is returned by transports used after Finish.
var ErrFinished = errors.New("transport finished")

// Reader is a byte source the codec decodes from.
type Reader interface {
	io.Reader

	// Finish releases the transport. Reads after Finish fail with ErrFinished.
	Finish() error
}

// Writer is a byte sink the codec encodes into.
type Writer interface {
	io.Writer

	// Finish flushes buffered bytes and releases the transport. It is safe to
	// call more than once; writes after Finish fail with ErrFinished.
	Finish() error
}

// Seeker is implemented by transports that support random access.
// Streaming transports (gzip, hashing) do not.
type Seeker interface {
	Seek(offset int64, whence int) (int64, error)
}
