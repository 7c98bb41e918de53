package transform

import (
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

// Precedence levels, loosest first. Kinds rendered as calls, literals or
// statements bind tightest.
const (
	precTernary = iota
	precOr
	precAnd
	precNot
	precCompare
	precAdditive
	precMultiplicative
	precUnary
	precPower
	precAtom
)

// Precedence returns the binding strength of n as an expression. An if only
// ranks as a ternary when its value is consumed; otherwise it is a statement.
// Negative numeric literals rank as unary minus.
func Precedence(n *ast.Node) int {
	switch n.Kind() {
	case ast.If:
		if n.IsValueConsumed() {
			return precTernary
		}
	case ast.Or:
		return precOr
	case ast.And:
		return precAnd
	case ast.Not:
		return precNot
	case ast.Lt, ast.Lte, ast.Gt, ast.Gte, ast.Eq, ast.In:
		return precCompare
	case ast.Add, ast.Sub:
		return precAdditive
	case ast.Mul, ast.Div:
		return precMultiplicative
	case ast.Neg:
		return precUnary
	case ast.Sqr:
		return precPower
	case ast.Constant:
		switch v := n.Value().(type) {
		case domain.Float:
			if v < 0 {
				return precUnary
			}
		case domain.Int:
			if v < 0 {
				return precUnary
			}
		}
	}
	return precAtom
}

// needsBrackets reports whether child i of n must be parenthesized when the
// tree is printed by naive concatenation.
func needsBrackets(n *ast.Node, i int) bool {
	child := Precedence(n.Child(i))
	switch n.Kind() {
	case ast.If:
		return n.IsValueConsumed() && child == precTernary
	case ast.Lt, ast.Lte, ast.Gt, ast.Gte, ast.Eq:
		return child <= precCompare
	case ast.In:
		if i == 0 {
			return child <= precCompare
		}
		return child < precAtom
	case ast.Neg, ast.Not, ast.Sqr:
		return child <= Precedence(n)
	case ast.ArrayAtPos:
		return i == 0 && child < precAtom
	}
	if !n.Info().Has(ast.IsInfix) {
		return false
	}
	parent := Precedence(n)
	if i == 1 {
		return child <= parent
	}
	return child < parent
}

// InsertBrackets wraps, bottom-up, every child that would bind looser than
// its parent in a brackets node. Right operands of infix operators are also
// wrapped at equal precedence so the printed grouping matches the tree.
// Brackets nodes rank as atoms, so the pass is idempotent.
func InsertBrackets(root *ast.Node) *ast.Node {
	bracket(root)
	return root
}

func bracket(n *ast.Node) {
	for i := 0; i < n.Len(); i++ {
		bracket(n.Child(i))
		if needsBrackets(n, i) {
			n.Child(i).Wrap(ast.Brackets)
		}
	}
}

// Prepare returns a copy of root ready for code generation: returns are
// cascaded, then brackets inserted. root is not modified.
func Prepare(root *ast.Node) *ast.Node {
	return InsertBrackets(CascadeReturns(root.Clone()))
}
