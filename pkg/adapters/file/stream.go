package file

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/arbor/pkg/ports"
)

// Writer is a buffered file transport implementing ports.Writer.
type Writer struct {
	f  *os.File
	bw *bufio.Writer
}

// Create truncates or creates path for writing.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &Writer{f: f, bw: bufio.NewWriter(f)}, nil
}

// Write buffers p.
func (w *Writer) Write(p []byte) (int, error) {
	if w.f == nil {
		return 0, ports.ErrFinished
	}
	return w.bw.Write(p)
}

// WriteByte buffers one byte.
func (w *Writer) WriteByte(c byte) error {
	if w.f == nil {
		return ports.ErrFinished
	}
	return w.bw.WriteByte(c)
}

// Finish flushes, syncs and closes the file.
func (w *Writer) Finish() error {
	if w.f == nil {
		return nil
	}
	f := w.f
	w.f = nil
	if err := w.bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush %s: %w", f.Name(), err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to fsync %s: %w", f.Name(), err)
	}
	return f.Close()
}

// Reader is a buffered file transport implementing ports.Reader and ports.Seeker.
type Reader struct {
	f  *os.File
	br *bufio.Reader
}

// Open opens path for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &Reader{f: f, br: bufio.NewReader(f)}, nil
}

// Read reads buffered bytes.
func (r *Reader) Read(p []byte) (int, error) {
	if r.f == nil {
		return 0, ports.ErrFinished
	}
	return r.br.Read(p)
}

// ReadByte reads one buffered byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.f == nil {
		return 0, ports.ErrFinished
	}
	return r.br.ReadByte()
}

// Seek repositions the file and drops the read buffer.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.f == nil {
		return 0, ports.ErrFinished
	}
	if whence == io.SeekCurrent {
		offset -= int64(r.br.Buffered())
	}
	pos, err := r.f.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	r.br.Reset(r.f)
	return pos, nil
}

// Finish closes the file.
func (r *Reader) Finish() error {
	if r.f == nil {
		return nil
	}
	f := r.f
	r.f = nil
	return f.Close()
}
