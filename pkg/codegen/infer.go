package codegen

import (
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

// InferType returns the static type of n. Statement kinds are void and
// yield TypeMissing without a diagnostic. A kind without a rule, or a local
// whose assignment cannot be found, is reported as a warning on ctx and also
// yields TypeMissing.
func InferType(n *ast.Node, ctx *Context) domain.Type {
	return inferType(n, ctx, map[int]bool{})
}

func inferType(n *ast.Node, ctx *Context, visiting map[int]bool) domain.Type {
	child := func(i int) domain.Type { return inferType(n.Child(i), ctx, visiting) }

	switch n.Kind() {
	case ast.Constant, ast.ArrayLiteral:
		return n.Value().Type()
	case ast.Param:
		return ctx.Model.Signature.TypeOf(n.Slot()).Constant()
	case ast.GetLocal:
		return inferLocal(n.Slot(), n.Root(), ctx, visiting)
	case ast.Block:
		return child(n.Len() - 1)
	case ast.Return, ast.Brackets, ast.Neg, ast.Sqr, ast.Abs:
		return child(0)
	case ast.If:
		if t := child(1); t != domain.TypeMissing {
			return t
		}
		return child(2)
	case ast.Add, ast.Sub, ast.Mul:
		a, b := child(0), child(1)
		if a == domain.TypeFloat || b == domain.TypeFloat {
			return domain.TypeFloat
		}
		return a
	case ast.Div, ast.Sqrt, ast.Exp, ast.IntToFloat, ast.TermFrequency:
		return domain.TypeFloat
	case ast.Lt, ast.Lte, ast.Gt, ast.Gte, ast.Eq, ast.And, ast.Or, ast.Not, ast.In, ast.IsMissing:
		return domain.TypeBool
	case ast.ArgMax, ast.ArgMaxInt, ast.IntToCategory:
		return domain.TypeCategory
	case ast.ArrayArgMaxIndex, ast.ArrayLen:
		return domain.TypeInt
	case ast.ArrayAtPos:
		arr := child(0)
		if elem := arr.Elem(); elem != domain.TypeMissing {
			return elem
		}
		ctx.Warnf(n.Kind(), "element type of %s is unknown", arr)
		return domain.TypeMissing
	case ast.NewArray:
		return domain.ArrayOf(child(1))
	case ast.Nop, ast.SetLocal, ast.IncLocal, ast.ArrayAtPosInc, ast.ForLocal:
		return domain.TypeMissing
	}
	ctx.Warnf(n.Kind(), "no type rule")
	return domain.TypeMissing
}

// inferLocal types a slot from its assignment: a for_local binding is an
// int, a setlocal has the type of its value.
func inferLocal(slot int, root *ast.Node, ctx *Context, visiting map[int]bool) domain.Type {
	if visiting[slot] {
		ctx.Warnf(ast.GetLocal, "local %d is defined in terms of itself", slot)
		return domain.TypeMissing
	}
	def := LocalDefinition(root, slot)
	if def == nil {
		ctx.Warnf(ast.GetLocal, "no assignment of local %d", slot)
		return domain.TypeMissing
	}
	if def.Kind() == ast.ForLocal {
		return domain.TypeInt
	}
	visiting[slot] = true
	defer delete(visiting, slot)
	return inferType(def.Child(1), ctx, visiting)
}

// LocalDefinition returns the first node assigning slot in evaluation
// order: a setlocal or the for_local binding it. nil when there is none.
func LocalDefinition(root *ast.Node, slot int) *ast.Node {
	var def *ast.Node
	ast.Walk(root, func(n *ast.Node) bool {
		if def != nil {
			return false
		}
		if (n.Kind() == ast.SetLocal || n.Kind() == ast.ForLocal) && n.Child(0).Slot() == slot {
			def = n
			return false
		}
		return true
	})
	return def
}

// StaticLen returns the length of an array-valued node when it is known at
// generation time: literals, new_array and locals assigned from either.
func StaticLen(n *ast.Node) (int, bool) {
	return staticLen(n, 0)
}

func staticLen(n *ast.Node, depth int) (int, bool) {
	if depth > n.Root().MaxLocal()+1 {
		return 0, false
	}
	switch n.Kind() {
	case ast.ArrayLiteral:
		return domain.AsArray(n.Value()).Len(), true
	case ast.NewArray:
		return n.Child(0).Slot(), true
	case ast.Brackets:
		return staticLen(n.Child(0), depth)
	case ast.GetLocal:
		def := LocalDefinition(n.Root(), n.Slot())
		if def == nil || def.Kind() != ast.SetLocal {
			return 0, false
		}
		return staticLen(def.Child(1), depth+1)
	}
	return 0, false
}
