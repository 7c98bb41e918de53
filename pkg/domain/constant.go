package domain

import (
	"cmp"
	"strconv"
	"strings"
)

// Type is the tag of a Constant. The numeric values are part of the wire
// format and must not change.
type Type uint8

const (
	TypeMissing Type = iota
	TypeFloat
	TypeInt
	TypeCategory
	TypeBool
	TypeString
	TypeIntArray
	TypeFloatArray
	TypeCategoryArray
	TypeStringArray
	TypeMixedArray
)

var typeNames = [...]string{
	TypeMissing:       "missing",
	TypeFloat:         "float",
	TypeInt:           "int",
	TypeCategory:      "category",
	TypeBool:          "bool",
	TypeString:        "string",
	TypeIntArray:      "int_array",
	TypeFloatArray:    "float_array",
	TypeCategoryArray: "category_array",
	TypeStringArray:   "string_array",
	TypeMixedArray:    "mixed_array",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is one of the known tags.
func (t Type) Valid() bool { return t <= TypeMixedArray }

// IsArray reports whether t is one of the array variants.
func (t Type) IsArray() bool { return t >= TypeIntArray && t <= TypeMixedArray }

// IsNumeric reports whether t can be read with AsFloat.
func (t Type) IsNumeric() bool { return t == TypeFloat || t == TypeInt }

// Elem returns the element type of an array type. MixedArray (and any
// non-array type) yields TypeMissing, meaning "any".
func (t Type) Elem() Type {
	switch t {
	case TypeIntArray:
		return TypeInt
	case TypeFloatArray:
		return TypeFloat
	case TypeCategoryArray:
		return TypeCategory
	case TypeStringArray:
		return TypeString
	default:
		return TypeMissing
	}
}

// ArrayOf returns the typed array variant holding elements of t, or
// MixedArray when no typed variant exists.
func ArrayOf(t Type) Type {
	switch t {
	case TypeInt:
		return TypeIntArray
	case TypeFloat:
		return TypeFloatArray
	case TypeCategory:
		return TypeCategoryArray
	case TypeString:
		return TypeStringArray
	default:
		return TypeMixedArray
	}
}

// Constant is a closed tagged union of the values a prediction program
// handles. The concrete types are Float, Int, Category, Bool, String,
// Missing and *Array.
type Constant interface {
	Type() Type
	String() string
	constant()
}

// Float is a 32-bit float, the precision carried on the wire.
type Float float32

// Int is a plain integer (counters, indices, local slots).
type Int int32

// Category is a class label.
type Category int32

// Bool is a truth value.
type Bool bool

// String is a text value.
type String string

// Missing marks an absent value.
type Missing struct{}

func (Float) Type() Type    { return TypeFloat }
func (Int) Type() Type      { return TypeInt }
func (Category) Type() Type { return TypeCategory }
func (Bool) Type() Type     { return TypeBool }
func (String) Type() Type   { return TypeString }
func (Missing) Type() Type  { return TypeMissing }

func (Float) constant()    {}
func (Int) constant()      {}
func (Category) constant() {}
func (Bool) constant()     {}
func (String) constant()   {}
func (Missing) constant()  {}
func (*Array) constant()   {}

func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func (i Int) String() string      { return strconv.FormatInt(int64(i), 10) }
func (c Category) String() string { return "#" + strconv.FormatInt(int64(c), 10) }
func (b Bool) String() string     { return strconv.FormatBool(bool(b)) }
func (s String) String() string   { return strconv.Quote(string(s)) }
func (Missing) String() string    { return "missing" }

// Array is a fixed-size sequence of Constants. Its Type is one of the five
// array variants; typed variants only hold elements of their element type.
type Array struct {
	typ    Type
	Values []Constant
}

// NewArray creates an array of the given array type. It panics when t is
// not an array type or an element does not match a typed variant.
func NewArray(t Type, values ...Constant) *Array {
	if !t.IsArray() {
		Violation("NewArray", "%s is not an array type", t)
	}
	if elem := t.Elem(); elem != TypeMissing {
		for i, v := range values {
			if v.Type() != elem {
				Violation("NewArray", "element %d of %s is %s", i, t, v.Type())
			}
		}
	}
	if values == nil {
		values = []Constant{}
	}
	return &Array{typ: t, Values: values}
}

// InferArrayType returns the narrowest array type able to hold values.
// Empty or heterogeneous sequences yield MixedArray.
func InferArrayType(values []Constant) Type {
	if len(values) == 0 {
		return TypeMixedArray
	}
	first := values[0].Type()
	for _, v := range values[1:] {
		if v.Type() != first {
			return TypeMixedArray
		}
	}
	return ArrayOf(first)
}

// Ints builds an IntArray.
func Ints(values ...int32) *Array {
	cs := make([]Constant, len(values))
	for i, v := range values {
		cs[i] = Int(v)
	}
	return &Array{typ: TypeIntArray, Values: cs}
}

// Floats builds a FloatArray.
func Floats(values ...float32) *Array {
	cs := make([]Constant, len(values))
	for i, v := range values {
		cs[i] = Float(v)
	}
	return &Array{typ: TypeFloatArray, Values: cs}
}

// Categories builds a CategoryArray.
func Categories(values ...int32) *Array {
	cs := make([]Constant, len(values))
	for i, v := range values {
		cs[i] = Category(v)
	}
	return &Array{typ: TypeCategoryArray, Values: cs}
}

// Strings builds a StringArray.
func Strings(values ...string) *Array {
	cs := make([]Constant, len(values))
	for i, v := range values {
		cs[i] = String(v)
	}
	return &Array{typ: TypeStringArray, Values: cs}
}

// Mixed builds a MixedArray.
func Mixed(values ...Constant) *Array {
	return NewArray(TypeMixedArray, values...)
}

func (a *Array) Type() Type { return a.typ }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.Values) }

// At returns element i, panicking when i is out of range.
func (a *Array) At(i int) Constant {
	if i < 0 || i >= len(a.Values) {
		Violation("Array.At", "index %d out of range [0,%d)", i, len(a.Values))
	}
	return a.Values[i]
}

// Set replaces element i, keeping the array's element type.
func (a *Array) Set(i int, c Constant) {
	if i < 0 || i >= len(a.Values) {
		Violation("Array.Set", "index %d out of range [0,%d)", i, len(a.Values))
	}
	if elem := a.typ.Elem(); elem != TypeMissing && c.Type() != elem {
		Violation("Array.Set", "cannot store %s in %s", c.Type(), a.typ)
	}
	a.Values[i] = c
}

// Clone returns a deep copy; nested arrays are copied too.
func (a *Array) Clone() *Array {
	values := make([]Constant, len(a.Values))
	for i, v := range a.Values {
		if inner, ok := v.(*Array); ok {
			v = inner.Clone()
		}
		values[i] = v
	}
	return &Array{typ: a.typ, Values: values}
}

func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// CloneConstant copies arrays and returns scalars as is.
func CloneConstant(c Constant) Constant {
	if a, ok := c.(*Array); ok {
		return a.Clone()
	}
	return c
}

// Equal compares two constants. Values of the same type compare by value
// (arrays element-wise); values of different types are never equal, even
// when numerically identical.
func Equal(a, b Constant) bool {
	if a.Type() != b.Type() {
		return false
	}
	if x, ok := a.(*Array); ok {
		y := b.(*Array)
		if len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if !Equal(x.Values[i], y.Values[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// Compare orders two constants: same-type values by value, different types
// by type tag only.
func Compare(a, b Constant) int {
	if ta, tb := a.Type(), b.Type(); ta != tb {
		return cmp.Compare(ta, tb)
	}
	switch x := a.(type) {
	case Float:
		return cmp.Compare(x, b.(Float))
	case Int:
		return cmp.Compare(x, b.(Int))
	case Category:
		return cmp.Compare(x, b.(Category))
	case Bool:
		y := b.(Bool)
		switch {
		case x == y:
			return 0
		case !bool(x):
			return -1
		default:
			return 1
		}
	case String:
		return strings.Compare(string(x), string(b.(String)))
	case *Array:
		y := b.(*Array)
		for i := 0; i < len(x.Values) && i < len(y.Values); i++ {
			if c := Compare(x.Values[i], y.Values[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(x.Values), len(y.Values))
	default:
		return 0
	}
}

// AsFloat reads a numeric constant as float32. Int is accepted and
// converted; anything else is an invariant violation.
func AsFloat(c Constant) float32 {
	switch v := c.(type) {
	case Float:
		return float32(v)
	case Int:
		return float32(v)
	}
	Violation("AsFloat", "expected float or int, got %s", c.Type())
	return 0
}

// AsInt reads an Int constant.
func AsInt(c Constant) int32 {
	if v, ok := c.(Int); ok {
		return int32(v)
	}
	Violation("AsInt", "expected int, got %s", c.Type())
	return 0
}

// AsBool reads a Bool constant.
func AsBool(c Constant) bool {
	if v, ok := c.(Bool); ok {
		return bool(v)
	}
	Violation("AsBool", "expected bool, got %s", c.Type())
	return false
}

// AsString reads a String constant.
func AsString(c Constant) string {
	if v, ok := c.(String); ok {
		return string(v)
	}
	Violation("AsString", "expected string, got %s", c.Type())
	return ""
}

// AsArray reads an array constant of any variant.
func AsArray(c Constant) *Array {
	if v, ok := c.(*Array); ok {
		return v
	}
	Violation("AsArray", "expected array, got %s", c.Type())
	return nil
}
