package eval

import (
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

// Environment is the state of one evaluation: the input row and the local
// slots. A nil slot is unset.
type Environment struct {
	Row    domain.Row
	Locals []domain.Constant

	// Visit, when set, is called for every node before it is evaluated.
	Visit func(*ast.Node)
}

// NewEnvironment creates an environment with n unset locals.
func NewEnvironment(row domain.Row, n int) *Environment {
	return &Environment{Row: row, Locals: make([]domain.Constant, n)}
}

// ForTree creates an environment with as many locals as root references.
func ForTree(row domain.Row, root *ast.Node) *Environment {
	return NewEnvironment(row, root.MaxLocal()+1)
}

func (e *Environment) param(i int) domain.Constant {
	if i < 0 || i >= len(e.Row) {
		domain.Violation("param", "index %d out of range, row has %d values", i, len(e.Row))
	}
	return domain.ToConstant(e.Row[i])
}

func (e *Environment) checkSlot(op string, slot int) {
	if slot < 0 || slot >= len(e.Locals) {
		domain.Violation(op, "local %d out of range, %d slots", slot, len(e.Locals))
	}
}

func (e *Environment) get(op string, slot int) domain.Constant {
	e.checkSlot(op, slot)
	v := e.Locals[slot]
	if v == nil {
		domain.Violation(op, "local %d read before it was set", slot)
	}
	return v
}

func (e *Environment) set(slot int, v domain.Constant) {
	e.checkSlot("setlocal", slot)
	e.Locals[slot] = v
}
