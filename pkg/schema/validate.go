package schema

import (
	"fmt"
	"slices"

	"github.com/aretw0/arbor/pkg/domain"
)

// Schema is a map of field names to their expected types.
// Example: {"petal_width": Continuous(), "species": Categorical()}
type Schema map[string]Type

// ForSignature returns the schema of a model's inputs. Fields are named by
// Signature.ParamName and every field is optional, so absent values become
// missing variables.
func ForSignature(sig domain.Signature) (Schema, error) {
	s := make(Schema, sig.Len())
	for i := range sig.Len() {
		t, err := For(sig.TypeOf(i))
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		name := sig.ParamName(i)
		if _, dup := s[name]; dup {
			return nil, fmt.Errorf("input %d: duplicate name %q", i, name)
		}
		s[name] = Optional(t)
	}
	return s, nil
}

// Validate checks if data conforms to the schema.
// Returns an error with all validation failures found, ordered by field name.
// Fields absent from data are passed to their type as nil, so only optional
// fields may be left out. Fields the schema does not define are rejected.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	var errs []error

	for _, fieldName := range sortedKeys(schema) {
		fieldType := schema[fieldName]
		value, exists := data[fieldName]
		if !exists {
			if fieldType.Validate(nil) != nil {
				errs = append(errs, &ValidationError{
					Key:    fieldName,
					Reason: "required",
				})
			}
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	for _, fieldName := range sortedKeys(data) {
		if _, known := schema[fieldName]; !known {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "not defined in schema",
				Value:  data[fieldName],
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// ValidateFields validates only specific fields from data against the schema.
// Missing fields are treated as an error unless their type is optional.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	var errs []error

	for _, fieldName := range fields {
		fieldType, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "not defined in schema",
			})
			continue
		}

		value := data[fieldName]
		if err := fieldType.Validate(value); err != nil {
			reason := err.Error()
			if _, present := data[fieldName]; !present {
				reason = "required"
			}
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: reason,
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// DecodeRow validates named input values and converts them into a row in
// signature order.
func DecodeRow(sig domain.Signature, data map[string]any) (domain.Row, error) {
	s, err := ForSignature(sig)
	if err != nil {
		return nil, err
	}
	if err := Validate(s, data); err != nil {
		return nil, err
	}
	row := make(domain.Row, sig.Len())
	for i := range row {
		// Validated above.
		row[i], _ = s[sig.ParamName(i)].Variable(data[sig.ParamName(i)])
	}
	return row, nil
}

// DecodeValues validates positional input values and converts them into a
// row. null is read as missing.
func DecodeValues(sig domain.Signature, values []any) (domain.Row, error) {
	if len(values) != sig.Len() {
		return nil, &ValidationError{
			Key:    "values",
			Reason: fmt.Sprintf("expected %d values, got %d", sig.Len(), len(values)),
		}
	}
	var errs []error
	row := make(domain.Row, len(values))
	for i, v := range values {
		t, err := For(sig.TypeOf(i))
		if err != nil {
			return nil, err
		}
		if row[i], err = Optional(t).Variable(v); err != nil {
			errs = append(errs, &ValidationError{Key: sig.ParamName(i), Reason: err.Error(), Value: v})
		}
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return row, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
