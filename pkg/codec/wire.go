package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// sink is where an encoder writes. *bufio.Writer and counter both satisfy it.
type sink interface {
	io.Writer
	io.ByteWriter
}

// counter discards bytes and counts them.
type counter struct{ n int64 }

func (c *counter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

func (c *counter) WriteByte(byte) error {
	c.n++
	return nil
}

// Option configures encoding.
type Option func(*encoder)

// OmitStrings writes every string as empty. The output only serves size
// scoring and does not round-trip.
func OmitStrings() Option {
	return func(e *encoder) { e.omitStrings = true }
}

type encoder struct {
	w           sink
	omitStrings bool
	scratch     [binary.MaxVarintLen64]byte
}

func newEncoder(w sink, opts []Option) *encoder {
	e := &encoder{w: w}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *encoder) byte(b byte) error { return e.w.WriteByte(b) }

func (e *encoder) uvarint(v uint64) error {
	n := binary.PutUvarint(e.scratch[:], v)
	_, err := e.w.Write(e.scratch[:n])
	return err
}

func (e *encoder) varint(v int64) error {
	n := binary.PutVarint(e.scratch[:], v)
	_, err := e.w.Write(e.scratch[:n])
	return err
}

func (e *encoder) float(f float32) error {
	binary.LittleEndian.PutUint32(e.scratch[:4], math.Float32bits(f))
	_, err := e.w.Write(e.scratch[:4])
	return err
}

func (e *encoder) string(s string) error {
	if e.omitStrings {
		return e.byte(0)
	}
	if strings.IndexByte(s, 0) >= 0 {
		return ErrNulInString
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		return err
	}
	return e.byte(0)
}

// encodeTo runs fn over a buffered writer on w and flushes it.
func encodeTo(w io.Writer, opts []Option, fn func(*encoder) error) error {
	bw := bufio.NewWriter(w)
	if err := fn(newEncoder(bw, opts)); err != nil {
		return err
	}
	return bw.Flush()
}

// decoder reads from a byte source and tracks the offset for errors.
type decoder struct {
	r   io.ByteReader
	off int64
}

func newDecoder(r io.Reader) *decoder {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &decoder{r: br}
}

func (d *decoder) fail(err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrTruncated
	}
	return &DecodeError{Offset: d.off, Err: err}
}

func (d *decoder) failf(sentinel error, format string, args ...any) error {
	return &DecodeError{Offset: d.off, Err: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))}
}

func (d *decoder) ReadByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	d.off++
	return b, nil
}

func (d *decoder) byte() (byte, error) {
	b, err := d.ReadByte()
	if err != nil {
		return 0, d.fail(err)
	}
	return b, nil
}

func (d *decoder) uvarint() (uint64, error) {
	v, err := binary.ReadUvarint(d)
	if err != nil {
		return 0, d.fail(err)
	}
	return v, nil
}

func (d *decoder) varint() (int64, error) {
	v, err := binary.ReadVarint(d)
	if err != nil {
		return 0, d.fail(err)
	}
	return v, nil
}

func (d *decoder) float() (float32, error) {
	var buf [4]byte
	for i := range buf {
		b, err := d.byte()
		if err != nil {
			return 0, err
		}
		buf[i] = b
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}

// MaxStringLen bounds decoded strings.
const MaxStringLen = 1 << 20

func (d *decoder) string() (string, error) {
	var sb strings.Builder
	for {
		b, err := d.byte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return sb.String(), nil
		}
		if sb.Len() >= MaxStringLen {
			return "", d.failf(ErrMalformedConstant, "string longer than %d bytes", MaxStringLen)
		}
		sb.WriteByte(b)
	}
}
