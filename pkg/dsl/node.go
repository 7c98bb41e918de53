package dsl

import (
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

// Block opens a block.
func (b *Builder) Block() *Builder { return b.Begin(ast.Block) }

// If opens an if; attach the condition, then and else nodes in that order.
func (b *Builder) If() *Builder { return b.Begin(ast.If) }

// Op opens an operator node such as ast.Add or ast.Gt.
func (b *Builder) Op(kind ast.Kind) *Builder { return b.Begin(kind) }

// Set opens a setlocal for slot; attach the assigned value.
func (b *Builder) Set(slot int) *Builder {
	return b.Begin(ast.SetLocal).Int(int32(slot))
}

// For opens a for_local counting slot from 0 to count-1; attach the body.
func (b *Builder) For(slot, count int) *Builder {
	return b.Begin(ast.ForLocal).Int(int32(slot)).Int(int32(count))
}

// NewArray opens a new_array of size elements; attach the initial value.
func (b *Builder) NewArray(size int) *Builder {
	return b.Begin(ast.NewArray).Int(int32(size))
}

// ArrayInc opens an array_at_pos_inc on the array held in slot; attach the
// index.
func (b *Builder) ArrayInc(slot int) *Builder {
	return b.Begin(ast.ArrayAtPosInc).Int(int32(slot))
}

// Float attaches a float constant.
func (b *Builder) Float(f float32) *Builder { return b.Leaf(ast.Constant, domain.Float(f)) }

// Int attaches an int constant.
func (b *Builder) Int(i int32) *Builder { return b.Leaf(ast.Constant, domain.Int(i)) }

// Category attaches a category constant.
func (b *Builder) Category(c int32) *Builder { return b.Leaf(ast.Constant, domain.Category(c)) }

// Bool attaches a bool constant.
func (b *Builder) Bool(v bool) *Builder { return b.Leaf(ast.Constant, domain.Bool(v)) }

// Text attaches a string constant.
func (b *Builder) Text(s string) *Builder { return b.Leaf(ast.Constant, domain.String(s)) }

// Missing attaches a missing constant.
func (b *Builder) Missing() *Builder { return b.Leaf(ast.Constant, domain.Missing{}) }

// Array attaches an array literal.
func (b *Builder) Array(a *domain.Array) *Builder { return b.Leaf(ast.ArrayLiteral, a) }

// Param attaches a reference to input i.
func (b *Builder) Param(i int) *Builder { return b.Leaf(ast.Param, domain.Int(int32(i))) }

// Get attaches a read of slot.
func (b *Builder) Get(slot int) *Builder { return b.Leaf(ast.GetLocal, domain.Int(int32(slot))) }

// Inc attaches an increment of slot.
func (b *Builder) Inc(slot int) *Builder { return b.Leaf(ast.IncLocal, domain.Int(int32(slot))) }

// Nop attaches a nop.
func (b *Builder) Nop() *Builder { return b.Begin(ast.Nop).End() }
