package schema

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
)

func TestContinuousType(t *testing.T) {
	typ := Continuous()

	if typ.Name() != "continuous" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "continuous")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{1.5, false},
		{float32(2), false},
		{42, false},
		{int64(-3), false},
		{json.Number("0.25"), false},
		{json.Number("abc"), true},
		{1e300, true},
		{"1.5", true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}

	v, err := typ.Variable(0.5)
	if err != nil || v != domain.Continuous(0.5) {
		t.Errorf("Variable(0.5) = %v, %v", v, err)
	}
}

func TestCategoricalType(t *testing.T) {
	typ := Categorical()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{2, false},
		{int32(7), false},
		{3.0, false},
		{3.5, true},
		{float64(1 << 40), true},
		{"2", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}

	v, err := typ.Variable(4.0)
	if err != nil || v != domain.Categorical(4) {
		t.Errorf("Variable(4.0) = %v, %v", v, err)
	}
}

func TestTextType(t *testing.T) {
	typ := Text()

	if err := typ.Validate("hello"); err != nil {
		t.Errorf("Validate(hello) error = %v", err)
	}
	if err := typ.Validate(42); err == nil {
		t.Error("Validate(42) should fail")
	}
	v, _ := typ.Variable("a b")
	if v != domain.Text("a b") {
		t.Errorf("Variable = %v", v)
	}
}

func TestOptionalType(t *testing.T) {
	typ := Optional(Continuous())

	if typ.Name() != "?continuous" {
		t.Errorf("Name() = %q", typ.Name())
	}
	if Optional(typ) != typ {
		t.Error("Optional should not nest")
	}
	if err := typ.Validate(nil); err != nil {
		t.Errorf("Validate(nil) error = %v", err)
	}
	if err := typ.Validate("x"); err == nil {
		t.Error("Validate(x) should fail")
	}
	v, err := typ.Variable(nil)
	if err != nil || v.Kind != domain.KindMissing {
		t.Errorf("Variable(nil) = %v, %v", v, err)
	}
}

func TestCustomType(t *testing.T) {
	positive := Custom("positive", Continuous(), func(v any) error {
		f, _ := number(v)
		if f <= 0 {
			return fmt.Errorf("must be positive")
		}
		return nil
	})

	if positive.Name() != "positive" {
		t.Errorf("Name() = %q", positive.Name())
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{1.5, false},
		{-1, true},
		{"1", true},
	}
	for _, tt := range tests {
		err := positive.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}

	if _, err := positive.Variable(-2); err == nil {
		t.Error("Variable(-2) should fail")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"continuous", "continuous", false},
		{"float", "continuous", false},
		{"category", "categorical", false},
		{"text", "text", false},
		{"?string", "?text", false},
		{"??float", "?continuous", false},
		{"int", "", true},
		{"?", "", true},
	}

	for _, tt := range tests {
		typ, err := ParseType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && typ.Name() != tt.want {
			t.Errorf("ParseType(%q).Name() = %q, want %q", tt.input, typ.Name(), tt.want)
		}
	}
}

func TestParseTypeMap(t *testing.T) {
	s, err := ParseTypeMap(map[string]string{
		"width":   "continuous",
		"species": "?categorical",
	})
	if err != nil {
		t.Fatalf("ParseTypeMap() error = %v", err)
	}
	if len(s) != 2 || s["species"].Name() != "?categorical" {
		t.Errorf("ParseTypeMap() = %v", s)
	}

	if _, err := ParseTypeMap(map[string]string{"x": "bogus"}); err == nil {
		t.Error("ParseTypeMap() should fail on unknown type")
	}
}
