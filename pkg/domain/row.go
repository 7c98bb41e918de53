package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// VariableKind tells which payload of a Variable is meaningful.
type VariableKind uint8

const (
	KindMissing VariableKind = iota
	KindCategorical
	KindContinuous
	KindText
)

func (k VariableKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindCategorical:
		return "categorical"
	case KindContinuous:
		return "continuous"
	case KindText:
		return "text"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Variable is one input (or output) value of a model.
type Variable struct {
	Kind     VariableKind
	Category int32
	Value    float32
	Text     string
}

// Row is one input record.
type Row []Variable

// Categorical creates a categorical variable.
func Categorical(c int32) Variable { return Variable{Kind: KindCategorical, Category: c} }

// Continuous creates a continuous variable.
func Continuous(v float32) Variable { return Variable{Kind: KindContinuous, Value: v} }

// Text creates a text variable.
func Text(s string) Variable { return Variable{Kind: KindText, Text: s} }

// MissingVariable creates a missing variable.
func MissingVariable() Variable { return Variable{Kind: KindMissing} }

func (v Variable) String() string {
	switch v.Kind {
	case KindCategorical:
		return "#" + strconv.FormatInt(int64(v.Category), 10)
	case KindContinuous:
		return strconv.FormatFloat(float64(v.Value), 'g', -1, 32)
	case KindText:
		return strconv.Quote(v.Text)
	default:
		return "missing"
	}
}

// MarshalJSON encodes the variable as {"kind": ..., "value": ...}.
func (v Variable) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind  string `json:"kind"`
		Value any    `json:"value"`
	}{Kind: v.Kind.String()}
	switch v.Kind {
	case KindCategorical:
		out.Value = v.Category
	case KindContinuous:
		out.Value = v.Value
	case KindText:
		out.Value = v.Text
	}
	return json.Marshal(out)
}

// ToConstant converts an input variable into the Constant a param node yields.
func ToConstant(v Variable) Constant {
	switch v.Kind {
	case KindCategorical:
		return Category(v.Category)
	case KindContinuous:
		return Float(v.Value)
	case KindText:
		return String(v.Text)
	case KindMissing:
		return Missing{}
	}
	Violation("ToConstant", "unknown variable kind %d", v.Kind)
	return nil
}

// FromConstant converts an evaluation result back into a Variable.
// Int results become continuous values and Bool results become the
// categories 0 and 1; arrays cannot be returned from a model.
func FromConstant(c Constant) Variable {
	switch v := c.(type) {
	case Category:
		return Categorical(int32(v))
	case Float:
		return Continuous(float32(v))
	case String:
		return Text(string(v))
	case Missing:
		return MissingVariable()
	case Int:
		return Continuous(float32(v))
	case Bool:
		if v {
			return Categorical(1)
		}
		return Categorical(0)
	}
	Violation("FromConstant", "cannot convert %s to a variable", c.Type())
	return Variable{}
}

// ParseVariable reads a textual value according to the declared input type.
// The empty string and "?" are read as missing.
func ParseVariable(t InputType, s string) (Variable, error) {
	if s == "" || s == "?" {
		return MissingVariable(), nil
	}
	switch t {
	case InputCategorical:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Variable{}, fmt.Errorf("invalid category %q: %w", s, err)
		}
		return Categorical(int32(n)), nil
	case InputContinuous:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Variable{}, fmt.Errorf("invalid number %q: %w", s, err)
		}
		return Continuous(float32(f)), nil
	case InputText:
		return Text(s), nil
	}
	return Variable{}, fmt.Errorf("unknown input type %d", t)
}
