package model

import (
	"errors"
	"fmt"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

// Model is the unit that is evaluated, serialized and compiled to source:
// a name, the description of its inputs and one program tree.
type Model struct {
	Name      string
	Signature domain.Signature
	Code      *ast.Node
}

// New creates a model. code becomes owned by the model.
func New(name string, sig domain.Signature, code *ast.Node) *Model {
	return &Model{Name: name, Signature: sig, Code: code}
}

// Validate checks what construction cannot: the signature is consistent,
// params stay within the inputs, the tree fits the resource bounds and every
// local is assigned before use.
func (m *Model) Validate() error {
	if m.Name == "" {
		return errors.New("model has no name")
	}
	if m.Code == nil {
		return fmt.Errorf("model %s has no code", m.Name)
	}
	if err := m.Signature.Validate(); err != nil {
		return fmt.Errorf("model %s: %w", m.Name, err)
	}
	var paramErr error
	ast.Walk(m.Code, func(n *ast.Node) bool {
		if n.Kind() == ast.Param && n.Slot() >= m.Signature.Len() {
			paramErr = fmt.Errorf("model %s: param %d out of range, %d inputs", m.Name, n.Slot(), m.Signature.Len())
		}
		return paramErr == nil
	})
	if paramErr != nil {
		return paramErr
	}
	if err := checkLimits(m.Code); err != nil {
		return fmt.Errorf("model %s: %w", m.Name, err)
	}
	if err := ast.VerifyLocals(m.Code); err != nil {
		return fmt.Errorf("model %s: %w", m.Name, err)
	}
	return nil
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	sig := m.Signature
	if sig.Types != nil {
		sig.Types = append([]domain.InputType(nil), sig.Types...)
	}
	if sig.Names != nil {
		sig.Names = append([]string(nil), sig.Names...)
	}
	return &Model{Name: m.Name, Signature: sig, Code: m.Code.Clone()}
}

// Summary is a short description used by listings.
type Summary struct {
	Name   string   `json:"name"`
	Inputs []string `json:"inputs"`
	Types  []string `json:"types"`
	Nodes  int      `json:"nodes"`
	Depth  int      `json:"depth"`
}

// Summarize describes m without its code.
func (m *Model) Summarize() Summary {
	s := Summary{Name: m.Name, Nodes: m.Code.Count(), Depth: m.Code.Depth()}
	for i := 0; i < m.Signature.Len(); i++ {
		s.Inputs = append(s.Inputs, m.Signature.ParamName(i))
		s.Types = append(s.Types, m.Signature.TypeOf(i).String())
	}
	return s
}
