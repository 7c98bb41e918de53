package model

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

// Input declares one model input in a definition.
type Input struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	Type string `yaml:"type" json:"type" mapstructure:"type"`
}

// Definition is the hand-written form of a model: YAML (or document
// frontmatter) carrying the signature plus the program in textual form.
//
//	name: linear
//	inputs:
//	  - {name: x, type: continuous}
//	  - {name: y, type: continuous}
//	code: |
//	  (if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)
type Definition struct {
	Name        string  `yaml:"name" json:"name" mapstructure:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty" mapstructure:"description"`
	Inputs      []Input `yaml:"inputs" json:"inputs" mapstructure:"inputs"`
	Code        string  `yaml:"code" json:"code" mapstructure:"code"`
}

// ParseDefinition reads a YAML definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse model definition: %w", err)
	}
	return &def, nil
}

// Compile parses the code and builds a validated model.
func (d *Definition) Compile() (*Model, error) {
	sig, err := d.signature()
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", d.Name, err)
	}
	code, err := ast.Parse(d.Code)
	if err != nil {
		return nil, fmt.Errorf("model %s: code: %w", d.Name, err)
	}
	m := New(d.Name, sig, code)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (d *Definition) signature() (domain.Signature, error) {
	types := make([]domain.InputType, len(d.Inputs))
	var names []string
	for i, in := range d.Inputs {
		t, err := domain.ParseInputType(in.Type)
		if err != nil {
			return domain.Signature{}, fmt.Errorf("input %d: %w", i, err)
		}
		types[i] = t
		if in.Name != "" {
			if names == nil {
				names = make([]string, len(d.Inputs))
			}
			names[i] = in.Name
		}
	}
	return domain.NewSignature(types, names), nil
}

// DefinitionOf renders m back into its hand-written form.
func DefinitionOf(m *Model) *Definition {
	def := &Definition{Name: m.Name, Code: ast.FormatIndent(m.Code)}
	for i := 0; i < m.Signature.Len(); i++ {
		in := Input{Type: m.Signature.TypeOf(i).String()}
		if m.Signature.HasNames() {
			in.Name = m.Signature.Names[i]
		}
		def.Inputs = append(def.Inputs, in)
	}
	return def
}

// Marshal encodes the definition as YAML.
func (d *Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
