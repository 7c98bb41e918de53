package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
)

func irisSignature() domain.Signature {
	return domain.NewSignature(
		[]domain.InputType{domain.InputContinuous, domain.InputCategorical, domain.InputText},
		[]string{"width", "species", "note"},
	)
}

func TestValidate_Success(t *testing.T) {
	schema := Schema{
		"width":   Continuous(),
		"species": Categorical(),
		"note":    Optional(Text()),
	}

	data := map[string]any{
		"width":   1.5,
		"species": 2,
	}

	if err := Validate(schema, data); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_MissingField(t *testing.T) {
	schema := Schema{
		"width":   Continuous(),
		"species": Categorical(),
	}

	err := Validate(schema, map[string]any{"width": 1.5})
	if err == nil {
		t.Fatal("Validate() should return error for missing field")
	}

	aggr, ok := err.(*AggregateError)
	if !ok {
		t.Fatalf("error should be *AggregateError, got %T", err)
	}
	if len(aggr.Errors) != 1 {
		t.Fatalf("Validate() = %d errors, want 1", len(aggr.Errors))
	}

	validErr, ok := aggr.Errors[0].(*ValidationError)
	if !ok {
		t.Fatalf("error should be *ValidationError, got %T", aggr.Errors[0])
	}
	if validErr.Key != "species" || validErr.Reason != "required" {
		t.Errorf("error = %+v, want species required", validErr)
	}
}

func TestValidate_MultipleErrorsAreOrdered(t *testing.T) {
	schema := Schema{
		"width":   Continuous(),
		"species": Categorical(),
	}

	data := map[string]any{
		"width":   "wide",
		"species": 1.5,
		"extra":   true,
	}

	errs := ValidationErrors(Validate(schema, data))
	if len(errs) != 3 {
		t.Fatalf("Validate() = %d errors, want 3", len(errs))
	}

	var keys []string
	for _, err := range errs {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("unexpected error type %T", err)
		}
		keys = append(keys, ve.Key)
	}
	if got := strings.Join(keys, ","); got != "species,width,extra" {
		t.Errorf("keys = %s", got)
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	var schema Schema
	if err := Validate(schema, map[string]any{"x": 1}); err != nil {
		t.Errorf("Validate() with nil schema should return nil, got %v", err)
	}
}

func TestValidateFields(t *testing.T) {
	schema := Schema{
		"width":   Continuous(),
		"species": Categorical(),
		"note":    Optional(Text()),
	}

	data := map[string]any{
		"width":   1.0,
		"species": "invalid",
	}

	if err := ValidateFields(schema, data, "width", "note"); err != nil {
		t.Errorf("ValidateFields() error = %v, want nil", err)
	}
	if err := ValidateFields(schema, data); err != nil {
		t.Errorf("ValidateFields() with no fields error = %v", err)
	}

	errs := ValidationErrors(ValidateFields(schema, data, "species", "unknown"))
	if len(errs) != 2 {
		t.Fatalf("ValidateFields() = %d errors, want 2", len(errs))
	}
	if !strings.Contains(errs[1].Error(), "not defined in schema") {
		t.Errorf("second error = %v", errs[1])
	}
}

func TestForSignature(t *testing.T) {
	s, err := ForSignature(irisSignature())
	if err != nil {
		t.Fatalf("ForSignature() error = %v", err)
	}
	if got := s["species"].Name(); got != "?categorical" {
		t.Errorf("species = %q", got)
	}

	unnamed := domain.Signature{Count: 2}
	s, err = ForSignature(unnamed)
	if err != nil {
		t.Fatalf("ForSignature(unnamed) error = %v", err)
	}
	if s["p1"] == nil || s["p1"].Name() != "?continuous" {
		t.Errorf("untyped inputs should be continuous, got %v", s)
	}

	dup := domain.NewSignature([]domain.InputType{domain.InputText, domain.InputText}, []string{"a", "a"})
	if _, err := ForSignature(dup); err == nil {
		t.Error("ForSignature() should reject duplicate names")
	}
}

func TestDecodeRow(t *testing.T) {
	row, err := DecodeRow(irisSignature(), map[string]any{
		"width":   0.5,
		"species": 3.0,
	})
	if err != nil {
		t.Fatalf("DecodeRow() error = %v", err)
	}

	want := domain.Row{domain.Continuous(0.5), domain.Categorical(3), domain.MissingVariable()}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %v, want %v", i, row[i], want[i])
		}
	}

	if _, err := DecodeRow(irisSignature(), map[string]any{"width": "x"}); !IsValidation(err) {
		t.Errorf("DecodeRow() error = %v, want validation error", err)
	}
}

func TestDecodeValues(t *testing.T) {
	row, err := DecodeValues(irisSignature(), []any{1, nil, "hi"})
	if err != nil {
		t.Fatalf("DecodeValues() error = %v", err)
	}
	if row[0] != domain.Continuous(1) || row[1].Kind != domain.KindMissing || row[2] != domain.Text("hi") {
		t.Errorf("DecodeValues() = %v", row)
	}

	if _, err := DecodeValues(irisSignature(), []any{1}); !IsValidation(err) {
		t.Errorf("arity mismatch should be a validation error, got %v", err)
	}
	errs := ValidationErrors(func() error { _, err := DecodeValues(irisSignature(), []any{"a", "b", 3}); return err }())
	if len(errs) != 3 {
		t.Errorf("DecodeValues() = %d errors, want 3", len(errs))
	}
}

func TestValidationError_String(t *testing.T) {
	err := &ValidationError{Key: "width", Reason: "expected number, got string", Value: "x"}
	want := `field "width": expected number, got string (got string)`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = &ValidationError{Key: "species", Reason: "required"}
	if err.Error() != `field "species": required` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestAggregateError_String(t *testing.T) {
	single := &AggregateError{Errors: []error{errors.New("one")}}
	if single.Error() != "one" {
		t.Errorf("Error() = %q", single.Error())
	}

	multi := &AggregateError{Errors: []error{errors.New("one"), errors.New("two")}}
	if !strings.HasPrefix(multi.Error(), "2 validation errors:") {
		t.Errorf("Error() = %q", multi.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	if ValidationErrors(errors.New("plain")) != nil {
		t.Error("plain errors are not validation errors")
	}
	if ValidationErrors(nil) != nil {
		t.Error("nil is not a validation error")
	}
}
