package domain

import (
	"fmt"
	"strconv"
)

// InputType is the declared type of one model input. The numeric values are
// written to the wire.
type InputType uint8

const (
	InputCategorical InputType = 1
	InputContinuous  InputType = 2
	InputText        InputType = 3
)

func (t InputType) String() string {
	switch t {
	case InputCategorical:
		return "categorical"
	case InputContinuous:
		return "continuous"
	case InputText:
		return "text"
	default:
		return "input(" + strconv.Itoa(int(t)) + ")"
	}
}

// Valid reports whether t is a known input type.
func (t InputType) Valid() bool { return t >= InputCategorical && t <= InputText }

// ParseInputType accepts the names produced by String.
func ParseInputType(s string) (InputType, error) {
	switch s {
	case "categorical", "category":
		return InputCategorical, nil
	case "continuous", "float":
		return InputContinuous, nil
	case "text", "string":
		return InputText, nil
	}
	return 0, fmt.Errorf("unknown input type %q", s)
}

// Constant returns the Constant type a param node of this input yields.
func (t InputType) Constant() Type {
	switch t {
	case InputCategorical:
		return TypeCategory
	case InputContinuous:
		return TypeFloat
	case InputText:
		return TypeString
	default:
		return TypeMissing
	}
}

// Signature describes the inputs of a model. Types and Names are either nil
// or exactly Count long.
type Signature struct {
	Count int
	Types []InputType
	Names []string

	// NamesAuthoritative marks names that come from the data source
	// rather than being synthesized by a trainer.
	NamesAuthoritative bool
}

// NewSignature builds a signature with types and optional names.
func NewSignature(types []InputType, names []string) Signature {
	return Signature{Count: len(types), Types: types, Names: names, NamesAuthoritative: names != nil}
}

// Len returns the number of inputs.
func (s Signature) Len() int { return s.Count }

// HasNames reports whether input names are present.
func (s Signature) HasNames() bool { return s.Names != nil }

// HasTypes reports whether input types are present.
func (s Signature) HasTypes() bool { return s.Types != nil }

// TypeOf returns the declared type of input i; untyped signatures report
// every input as continuous.
func (s Signature) TypeOf(i int) InputType {
	if s.Types == nil || i < 0 || i >= len(s.Types) {
		return InputContinuous
	}
	return s.Types[i]
}

// ParamName returns the name of input i, or p<i> when unnamed.
func (s Signature) ParamName(i int) string {
	if s.Names != nil && i >= 0 && i < len(s.Names) && s.Names[i] != "" {
		return s.Names[i]
	}
	return "p" + strconv.Itoa(i)
}

// Validate checks the internal consistency of the signature.
func (s Signature) Validate() error {
	if s.Count < 0 {
		return fmt.Errorf("negative input count %d", s.Count)
	}
	if s.Types != nil && len(s.Types) != s.Count {
		return fmt.Errorf("signature has %d inputs but %d types", s.Count, len(s.Types))
	}
	if s.Names != nil && len(s.Names) != s.Count {
		return fmt.Errorf("signature has %d inputs but %d names", s.Count, len(s.Names))
	}
	for i, t := range s.Types {
		if !t.Valid() {
			return fmt.Errorf("input %d: invalid type %d", i, t)
		}
	}
	return nil
}

// Check verifies that a row matches the signature: same arity, and every
// non-missing variable has the kind its input type expects.
func (s Signature) Check(row Row) error {
	if len(row) != s.Count {
		return fmt.Errorf("%w: row has %d values, model expects %d", ErrRowMismatch, len(row), s.Count)
	}
	if s.Types == nil {
		return nil
	}
	for i, v := range row {
		if v.Kind == KindMissing {
			continue
		}
		want := inputKind(s.Types[i])
		if v.Kind != want {
			return fmt.Errorf("%w: input %s: expected %s, got %s", ErrRowMismatch, s.ParamName(i), want, v.Kind)
		}
	}
	return nil
}

// ParseRow reads one textual value per input.
func (s Signature) ParseRow(values []string) (Row, error) {
	if len(values) != s.Count {
		return nil, fmt.Errorf("%w: got %d values, model expects %d", ErrRowMismatch, len(values), s.Count)
	}
	row := make(Row, len(values))
	for i, raw := range values {
		v, err := ParseVariable(s.TypeOf(i), raw)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", s.ParamName(i), err)
		}
		row[i] = v
	}
	return row, nil
}

func inputKind(t InputType) VariableKind {
	switch t {
	case InputCategorical:
		return KindCategorical
	case InputText:
		return KindText
	default:
		return KindContinuous
	}
}
