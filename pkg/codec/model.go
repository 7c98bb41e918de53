package codec

import (
	"bytes"
	"io"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

// Signature flag bits.
const (
	flagNames         = 1 << 0
	flagTypes         = 1 << 1
	flagAuthoritative = 1 << 2
	flagMask          = flagNames | flagTypes | flagAuthoritative
)

// MaxInputs bounds the input count of a decoded signature.
const MaxInputs = 1 << 16

// EncodeModel writes [name][signature][code].
func EncodeModel(w io.Writer, m *model.Model, opts ...Option) error {
	return encodeTo(w, opts, func(e *encoder) error { return e.model(m) })
}

// DecodeModel reads one model. On failure it returns a *DecodeError and no
// model.
func DecodeModel(r io.Reader) (*model.Model, error) {
	return newDecoder(r).model()
}

// MarshalModel encodes m into a byte slice.
func MarshalModel(m *model.Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeModel(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalModel decodes a model and rejects trailing bytes.
func UnmarshalModel(data []byte) (*model.Model, error) {
	r := bytes.NewReader(data)
	d := newDecoder(r)
	m, err := d.model()
	if err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, &DecodeError{Offset: d.off, Err: ErrTrailingData}
	}
	return m, nil
}

// Size returns the encoded size of m without materializing it. With
// OmitStrings it scores the model independently of its names.
func Size(m *model.Model, opts ...Option) (int64, error) {
	var c counter
	if err := newEncoder(&c, opts).model(m); err != nil {
		return 0, err
	}
	return c.n, nil
}

func (e *encoder) model(m *model.Model) error {
	if err := e.string(m.Name); err != nil {
		return err
	}
	if err := e.signature(m.Signature); err != nil {
		return err
	}
	return e.node(m.Code)
}

func (e *encoder) signature(s domain.Signature) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var flags byte
	if s.HasNames() {
		flags |= flagNames
	}
	if s.HasTypes() {
		flags |= flagTypes
	}
	if s.NamesAuthoritative {
		flags |= flagAuthoritative
	}
	if err := e.uvarint(uint64(s.Count)); err != nil {
		return err
	}
	if err := e.byte(flags); err != nil {
		return err
	}
	for _, name := range s.Names {
		if err := e.string(name); err != nil {
			return err
		}
	}
	for _, t := range s.Types {
		if err := e.uvarint(uint64(t)); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) model() (*model.Model, error) {
	name, err := d.string()
	if err != nil {
		return nil, err
	}
	sig, err := d.signature()
	if err != nil {
		return nil, err
	}
	code, err := d.node()
	if err != nil {
		return nil, err
	}
	return model.New(name, sig, code), nil
}

func (d *decoder) signature() (domain.Signature, error) {
	count, err := d.uvarint()
	if err != nil {
		return domain.Signature{}, err
	}
	if count > MaxInputs {
		return domain.Signature{}, d.failf(ErrMalformedSignature, "%d inputs", count)
	}
	flags, err := d.byte()
	if err != nil {
		return domain.Signature{}, err
	}
	if flags&^flagMask != 0 {
		return domain.Signature{}, d.failf(ErrMalformedSignature, "unknown flags 0x%02x", flags)
	}
	sig := domain.Signature{Count: int(count), NamesAuthoritative: flags&flagAuthoritative != 0}
	if flags&flagNames != 0 {
		sig.Names = make([]string, count)
		for i := range sig.Names {
			if sig.Names[i], err = d.string(); err != nil {
				return domain.Signature{}, err
			}
		}
	}
	if flags&flagTypes != 0 {
		sig.Types = make([]domain.InputType, count)
		for i := range sig.Types {
			v, err := d.uvarint()
			if err != nil {
				return domain.Signature{}, err
			}
			t := domain.InputType(v)
			if v > 255 || !t.Valid() {
				return domain.Signature{}, d.failf(ErrMalformedSignature, "input %d has type %d", i, v)
			}
			sig.Types[i] = t
		}
	}
	return sig, nil
}
