// Package hash provides digesting stream transports: bytes pass through
// while a running digest is kept, for model fingerprints and HTTP ETags.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	stdhash "hash"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/ports"
)

// Algorithm names a digest.
type Algorithm string

const (
	// SHA256 is the content digest used for stored models.
	SHA256 Algorithm = "sha256"
	// XXH64 is a fast non-cryptographic digest for cache keys.
	XXH64 Algorithm = "xxh64"
)

// New returns a fresh hash for algo.
func New(algo Algorithm) (stdhash.Hash, error) {
	switch algo {
	case SHA256:
		return sha256.New(), nil
	case XXH64:
		return xxhash.New(), nil
	}
	return nil, fmt.Errorf("unknown hash algorithm %q", algo)
}

func format(algo Algorithm, h stdhash.Hash) string {
	return string(algo) + ":" + hex.EncodeToString(h.Sum(nil))
}

// Writer hashes everything written and forwards it to dst (io.Discard when
// nil). It implements ports.Writer.
type Writer struct {
	algo     Algorithm
	h        stdhash.Hash
	dst      io.Writer
	finished bool
}

// NewWriter creates a hashing writer.
func NewWriter(dst io.Writer, algo Algorithm) (*Writer, error) {
	h, err := New(algo)
	if err != nil {
		return nil, err
	}
	if dst == nil {
		dst = io.Discard
	}
	return &Writer{algo: algo, h: h, dst: dst}, nil
}

// Write forwards p and adds what was accepted to the digest.
func (w *Writer) Write(p []byte) (int, error) {
	if w.finished {
		return 0, ports.ErrFinished
	}
	n, err := w.dst.Write(p)
	w.h.Write(p[:n])
	return n, err
}

// Finish finishes dst when it is a ports.Writer. The digest stays readable.
func (w *Writer) Finish() error {
	if w.finished {
		return nil
	}
	w.finished = true
	if pw, ok := w.dst.(ports.Writer); ok {
		return pw.Finish()
	}
	return nil
}

// Digest returns "algo:hex" over the bytes written so far.
func (w *Writer) Digest() string { return format(w.algo, w.h) }

// Reader hashes everything read from src. It implements ports.Reader.
type Reader struct {
	algo     Algorithm
	h        stdhash.Hash
	src      io.Reader
	finished bool
}

// NewReader creates a hashing reader.
func NewReader(src io.Reader, algo Algorithm) (*Reader, error) {
	h, err := New(algo)
	if err != nil {
		return nil, err
	}
	return &Reader{algo: algo, h: h, src: src}, nil
}

// Read reads from src and adds the bytes to the digest.
func (r *Reader) Read(p []byte) (int, error) {
	if r.finished {
		return 0, ports.ErrFinished
	}
	n, err := r.src.Read(p)
	r.h.Write(p[:n])
	return n, err
}

// Finish finishes src when it is a ports.Reader.
func (r *Reader) Finish() error {
	if r.finished {
		return nil
	}
	r.finished = true
	if pr, ok := r.src.(ports.Reader); ok {
		return pr.Finish()
	}
	return nil
}

// Digest returns "algo:hex" over the bytes read so far.
func (r *Reader) Digest() string { return format(r.algo, r.h) }

// Model digests the wire encoding of m.
func Model(m *model.Model, algo Algorithm) (string, error) {
	w, err := NewWriter(nil, algo)
	if err != nil {
		return "", err
	}
	if err := codec.EncodeModel(w, m); err != nil {
		return "", err
	}
	return w.Digest(), nil
}
