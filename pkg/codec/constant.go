package codec

import (
	"io"
	"math"

	"github.com/aretw0/arbor/pkg/domain"
)

const (
	// MaxArrayLen bounds decoded array lengths.
	MaxArrayLen = 1 << 20
	// MaxArrayDepth bounds the nesting of decoded arrays.
	MaxArrayDepth = 32
)

// EncodeConstant writes one tagged constant.
func EncodeConstant(w io.Writer, c domain.Constant, opts ...Option) error {
	return encodeTo(w, opts, func(e *encoder) error { return e.constant(c) })
}

// DecodeConstant reads one tagged constant.
func DecodeConstant(r io.Reader) (domain.Constant, error) {
	return newDecoder(r).constant(0)
}

func (e *encoder) constant(c domain.Constant) error {
	if err := e.byte(byte(c.Type())); err != nil {
		return err
	}
	switch v := c.(type) {
	case domain.Missing:
		return nil
	case domain.Float:
		return e.float(float32(v))
	case domain.Int:
		return e.varint(int64(v))
	case domain.Category:
		return e.varint(int64(v))
	case domain.Bool:
		if v {
			return e.byte(1)
		}
		return e.byte(0)
	case domain.String:
		return e.string(string(v))
	case *domain.Array:
		if err := e.uvarint(uint64(v.Len())); err != nil {
			return err
		}
		for _, elem := range v.Values {
			if err := e.constant(elem); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrMalformedConstant
}

func (d *decoder) constant(depth int) (domain.Constant, error) {
	tag, err := d.byte()
	if err != nil {
		return nil, err
	}
	t := domain.Type(tag)
	switch t {
	case domain.TypeMissing:
		return domain.Missing{}, nil
	case domain.TypeFloat:
		f, err := d.float()
		return domain.Float(f), err
	case domain.TypeInt, domain.TypeCategory:
		v, err := d.varint()
		if err != nil {
			return nil, err
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, d.failf(ErrMalformedConstant, "%s %d overflows 32 bits", t, v)
		}
		if t == domain.TypeInt {
			return domain.Int(int32(v)), nil
		}
		return domain.Category(int32(v)), nil
	case domain.TypeBool:
		b, err := d.byte()
		if err != nil {
			return nil, err
		}
		if b > 1 {
			return nil, d.failf(ErrMalformedConstant, "bool byte %d", b)
		}
		return domain.Bool(b == 1), nil
	case domain.TypeString:
		s, err := d.string()
		return domain.String(s), err
	}
	if !t.IsArray() {
		return nil, d.failf(ErrMalformedConstant, "unknown type tag %d", tag)
	}
	if depth >= MaxArrayDepth {
		return nil, d.failf(ErrMalformedConstant, "arrays nested deeper than %d", MaxArrayDepth)
	}
	n, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	if n > MaxArrayLen {
		return nil, d.failf(ErrMalformedConstant, "array of %d elements", n)
	}
	values := make([]domain.Constant, n)
	elem := t.Elem()
	for i := range values {
		v, err := d.constant(depth + 1)
		if err != nil {
			return nil, err
		}
		if elem != domain.TypeMissing && v.Type() != elem {
			return nil, d.failf(ErrMalformedConstant, "%s element %d is %s", t, i, v.Type())
		}
		values[i] = v
	}
	return domain.NewArray(t, values...), nil
}
