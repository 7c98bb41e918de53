package memory

import (
	"errors"
	"io"

	"github.com/aretw0/arbor/pkg/ports"
)

// Buffer is a growable in-memory transport. It implements ports.Reader,
// ports.Writer and ports.Seeker over one byte slice with a shared cursor.
// Not safe for concurrent use.
type Buffer struct {
	data     []byte
	pos      int
	finished bool
}

// NewBuffer creates an empty buffer positioned at 0.
func NewBuffer() *Buffer { return &Buffer{} }

// NewReader creates a buffer positioned at the start of data. data is not copied.
func NewReader(data []byte) *Buffer { return &Buffer{data: data} }

// Write writes p at the cursor, growing the buffer as needed.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.finished {
		return 0, ports.ErrFinished
	}
	if end := b.pos + len(p); end > len(b.data) {
		b.data = append(b.data[:b.pos], p...)
	} else {
		copy(b.data[b.pos:], p)
	}
	b.pos += len(p)
	return len(p), nil
}

// WriteByte lets the codec skip its own buffering.
func (b *Buffer) WriteByte(c byte) error {
	_, err := b.Write([]byte{c})
	return err
}

// Read reads from the cursor.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.finished {
		return 0, ports.ErrFinished
	}
	if b.pos >= len(b.data) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

// ReadByte reads one byte from the cursor.
func (b *Buffer) ReadByte() (byte, error) {
	var one [1]byte
	if _, err := b.Read(one[:]); err != nil {
		return 0, err
	}
	return one[0], nil
}

// Seek moves the cursor. Seeking past the end is allowed; a later Write
// fills the gap with zeros.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(b.pos)
	case io.SeekEnd:
		base = int64(len(b.data))
	default:
		return 0, errors.New("memory: invalid whence")
	}
	abs := base + offset
	if abs < 0 {
		return 0, errors.New("memory: negative position")
	}
	if int(abs) > len(b.data) {
		b.data = append(b.data, make([]byte, int(abs)-len(b.data))...)
	}
	b.pos = int(abs)
	return abs, nil
}

// Finish marks the buffer done. Bytes stays readable.
func (b *Buffer) Finish() error {
	b.finished = true
	return nil
}

// Bytes returns everything written so far.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of bytes held.
func (b *Buffer) Len() int { return len(b.data) }
