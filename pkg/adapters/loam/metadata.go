package loam

import "github.com/aretw0/arbor/pkg/model"

// ModelMetadata is the frontmatter of a model document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type ModelMetadata struct {
	Name        string        `json:"name" mapstructure:"name"`
	Description string        `json:"description" mapstructure:"description"`
	Inputs      []model.Input `json:"inputs" mapstructure:"inputs"`

	// Code holds the program in textual form. When empty, the document
	// body is the program.
	Code string `json:"code" mapstructure:"code"`

	// General Metadata
	Metadata map[string]string `json:"metadata" mapstructure:"metadata"`
}
