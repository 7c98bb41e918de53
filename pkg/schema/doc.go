// Package schema validates model inputs that arrive as loosely typed data,
// such as decoded JSON, and turns them into rows.
//
// A Schema maps input names to value types. The types mirror the input types
// of a signature: continuous inputs accept any number, categorical inputs
// accept whole numbers and text inputs accept strings. Optional wraps a type
// so that null or absent values become missing variables.
//
//	s := schema.Schema{
//	    "petal_width": schema.Continuous(),
//	    "species":     schema.Optional(schema.Categorical()),
//	}
//
//	if err := schema.Validate(s, data); err != nil {
//	    // every failing field is reported in one *AggregateError
//	}
//
// ForSignature derives the schema of a model, and DecodeRow validates and
// converts in one step:
//
//	row, err := schema.DecodeRow(m.Signature, map[string]any{"p0": 1.5})
//
// Schemas can also be parsed from type strings ("continuous", "categorical",
// "text", and "?" prefixed optional forms) with ParseTypeMap.
package schema
