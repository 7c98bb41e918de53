package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type and how
// a valid value becomes a row variable.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "continuous").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
	// Variable converts a value into a row variable.
	Variable(value any) (domain.Variable, error)
}

// --- Built-in Type Implementations ---

// ContinuousType accepts any number.
type ContinuousType struct{}

func (t *ContinuousType) Name() string { return "continuous" }

func (t *ContinuousType) Validate(value any) error {
	_, err := t.Variable(value)
	return err
}

func (t *ContinuousType) Variable(value any) (domain.Variable, error) {
	f, ok := number(value)
	if !ok {
		return domain.Variable{}, fmt.Errorf("expected number, got %T", value)
	}
	if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
		return domain.Variable{}, fmt.Errorf("number %g overflows float32", f)
	}
	return domain.Continuous(float32(f)), nil
}

// CategoricalType accepts whole numbers that fit a category index.
type CategoricalType struct{}

func (t *CategoricalType) Name() string { return "categorical" }

func (t *CategoricalType) Validate(value any) error {
	_, err := t.Variable(value)
	return err
}

func (t *CategoricalType) Variable(value any) (domain.Variable, error) {
	f, ok := number(value)
	if !ok {
		return domain.Variable{}, fmt.Errorf("expected category, got %T", value)
	}
	// Accept floats that are whole numbers (from JSON unmarshaling)
	if f != math.Trunc(f) {
		return domain.Variable{}, fmt.Errorf("expected category, got float (not a whole number)")
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return domain.Variable{}, fmt.Errorf("category %g out of range", f)
	}
	return domain.Categorical(int32(f)), nil
}

// TextType accepts strings.
type TextType struct{}

func (t *TextType) Name() string { return "text" }

func (t *TextType) Validate(value any) error {
	_, err := t.Variable(value)
	return err
}

func (t *TextType) Variable(value any) (domain.Variable, error) {
	s, ok := value.(string)
	if !ok {
		return domain.Variable{}, fmt.Errorf("expected string, got %T", value)
	}
	return domain.Text(s), nil
}

// OptionalType accepts nil as a missing value and anything its element type
// accepts.
type OptionalType struct {
	elemType Type
}

func (t *OptionalType) Name() string { return "?" + t.elemType.Name() }

func (t *OptionalType) Validate(value any) error {
	if value == nil {
		return nil
	}
	return t.elemType.Validate(value)
}

func (t *OptionalType) Variable(value any) (domain.Variable, error) {
	if value == nil {
		return domain.MissingVariable(), nil
	}
	return t.elemType.Variable(value)
}

// CustomType applies a user-defined validation function before converting
// with its base type.
type CustomType struct {
	name     string
	base     Type
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	if err := t.base.Validate(value); err != nil {
		return err
	}
	return t.validate(value)
}

func (t *CustomType) Variable(value any) (domain.Variable, error) {
	if err := t.Validate(value); err != nil {
		return domain.Variable{}, err
	}
	return t.base.Variable(value)
}

// --- Factory Functions ---

// Continuous creates a continuous input validator.
func Continuous() Type { return &ContinuousType{} }

// Categorical creates a categorical input validator.
func Categorical() Type { return &CategoricalType{} }

// Text creates a text input validator.
func Text() Type { return &TextType{} }

// Optional lets t also accept nil.
func Optional(t Type) Type {
	if _, ok := t.(*OptionalType); ok {
		return t
	}
	return &OptionalType{elemType: t}
}

// Custom creates a validator that checks base first and then validate.
func Custom(name string, base Type, validate func(any) error) Type {
	return &CustomType{name: name, base: base, validate: validate}
}

// For returns the type of an input.
func For(t domain.InputType) (Type, error) {
	switch t {
	case domain.InputContinuous:
		return Continuous(), nil
	case domain.InputCategorical:
		return Categorical(), nil
	case domain.InputText:
		return Text(), nil
	}
	return nil, fmt.Errorf("unknown input type %d", t)
}

// ParseType converts a string type name to a Type.
// Accepts the input type names ("continuous", "categorical", "text" and their
// aliases) optionally prefixed with "?".
func ParseType(typeStr string) (Type, error) {
	if rest, ok := strings.CutPrefix(typeStr, "?"); ok {
		elemType, err := ParseType(rest)
		if err != nil {
			return nil, err
		}
		return Optional(elemType), nil
	}
	it, err := domain.ParseInputType(typeStr)
	if err != nil {
		return nil, err
	}
	return For(it)
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
