// Package compress provides gzip stream transports for the codec.
package compress

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/aretw0/arbor/pkg/ports"
)

// Writer gzip-compresses everything written into dst. It implements ports.Writer.
type Writer struct {
	zw  *gzip.Writer
	dst io.Writer
}

// Option configures a Writer.
type Option func(*options)

type options struct {
	level int
}

// WithLevel sets the compression level (gzip.BestSpeed … gzip.BestCompression).
func WithLevel(level int) Option {
	return func(o *options) { o.level = level }
}

// NewWriter creates a compressing writer on dst.
func NewWriter(dst io.Writer, opts ...Option) (*Writer, error) {
	o := options{level: gzip.DefaultCompression}
	for _, opt := range opts {
		opt(&o)
	}
	zw, err := gzip.NewWriterLevel(dst, o.level)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	return &Writer{zw: zw, dst: dst}, nil
}

// Write compresses p.
func (w *Writer) Write(p []byte) (int, error) {
	if w.zw == nil {
		return 0, ports.ErrFinished
	}
	return w.zw.Write(p)
}

// Finish writes the gzip trailer and finishes dst when it is a ports.Writer.
func (w *Writer) Finish() error {
	if w.zw == nil {
		return nil
	}
	zw := w.zw
	w.zw = nil
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	if pw, ok := w.dst.(ports.Writer); ok {
		return pw.Finish()
	}
	return nil
}

// Reader decompresses a gzip stream. It implements ports.Reader and
// io.ByteReader.
type Reader struct {
	zr  *gzip.Reader
	br  *bufio.Reader
	src io.Reader
}

// NewReader reads the gzip header from src.
func NewReader(src io.Reader) (*Reader, error) {
	zr, err := gzip.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	return &Reader{zr: zr, br: bufio.NewReader(zr), src: src}, nil
}

// Read decompresses into p.
func (r *Reader) Read(p []byte) (int, error) {
	if r.zr == nil {
		return 0, ports.ErrFinished
	}
	return r.br.Read(p)
}

// ReadByte decompresses one byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.zr == nil {
		return 0, ports.ErrFinished
	}
	return r.br.ReadByte()
}

// Finish closes the gzip reader and finishes src when it is a ports.Reader.
func (r *Reader) Finish() error {
	if r.zr == nil {
		return nil
	}
	zr := r.zr
	r.zr = nil
	if err := zr.Close(); err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	if pr, ok := r.src.(ports.Reader); ok {
		return pr.Finish()
	}
	return nil
}
