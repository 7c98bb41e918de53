package eval

import (
	"math"
	"strings"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

var missing domain.Constant = domain.Missing{}

// Evaluate computes the value of n in env. Children are evaluated left to
// right; only if evaluates a subset of them. Broken invariants panic with
// *domain.InvariantError.
func Evaluate(n *ast.Node, env *Environment) domain.Constant {
	if env.Visit != nil {
		env.Visit(n)
	}
	switch n.Kind() {
	case ast.Block:
		var last domain.Constant
		for _, c := range n.Children() {
			last = Evaluate(c, env)
		}
		return last
	case ast.If:
		if domain.AsBool(Evaluate(n.Child(0), env)) {
			return Evaluate(n.Child(1), env)
		}
		return Evaluate(n.Child(2), env)
	case ast.Return, ast.Brackets:
		return Evaluate(n.Child(0), env)
	case ast.Nop:
		return missing

	case ast.Constant, ast.ArrayLiteral:
		return n.Value()
	case ast.Param:
		return env.param(n.Slot())

	case ast.SetLocal:
		v := Evaluate(n.Child(1), env)
		env.set(n.Child(0).Slot(), domain.CloneConstant(v))
		return missing
	case ast.GetLocal:
		return env.get("getlocal", n.Slot())
	case ast.IncLocal:
		v, ok := env.get("inclocal", n.Slot()).(domain.Int)
		if !ok {
			domain.Violation("inclocal", "local %d does not hold an int", n.Slot())
		}
		env.Locals[n.Slot()] = v + 1
		return missing
	case ast.ForLocal:
		slot, count := n.Child(0).Slot(), n.Child(1).Slot()
		for i := 0; i < count; i++ {
			env.set(slot, domain.Int(int32(i)))
			Evaluate(n.Child(2), env)
		}
		return missing

	case ast.Add, ast.Sub, ast.Mul:
		return arith(n.Kind(), Evaluate(n.Child(0), env), Evaluate(n.Child(1), env))
	case ast.Div:
		a := domain.AsFloat(Evaluate(n.Child(0), env))
		b := domain.AsFloat(Evaluate(n.Child(1), env))
		return domain.Float(a / b)
	case ast.Neg, ast.Sqr, ast.Abs:
		return unary(n.Kind(), Evaluate(n.Child(0), env))
	case ast.Sqrt:
		return domain.Float(math.Sqrt(float64(domain.AsFloat(Evaluate(n.Child(0), env)))))
	case ast.Exp:
		return domain.Float(math.Exp(float64(domain.AsFloat(Evaluate(n.Child(0), env)))))

	case ast.Lt, ast.Lte, ast.Gt, ast.Gte:
		a := domain.AsFloat(Evaluate(n.Child(0), env))
		b := domain.AsFloat(Evaluate(n.Child(1), env))
		return domain.Bool(compare(n.Kind(), a, b))
	case ast.Eq:
		return domain.Bool(domain.Equal(Evaluate(n.Child(0), env), Evaluate(n.Child(1), env)))
	case ast.And:
		a := domain.AsBool(Evaluate(n.Child(0), env))
		b := domain.AsBool(Evaluate(n.Child(1), env))
		return domain.Bool(a && b)
	case ast.Or:
		a := domain.AsBool(Evaluate(n.Child(0), env))
		b := domain.AsBool(Evaluate(n.Child(1), env))
		return domain.Bool(a || b)
	case ast.Not:
		return domain.Bool(!domain.AsBool(Evaluate(n.Child(0), env)))
	case ast.In:
		v := Evaluate(n.Child(0), env)
		for _, e := range domain.AsArray(Evaluate(n.Child(1), env)).Values {
			if domain.Equal(v, e) {
				return domain.Bool(true)
			}
		}
		return domain.Bool(false)
	case ast.IsMissing:
		return domain.Bool(Evaluate(n.Child(0), env).Type() == domain.TypeMissing)

	case ast.ArgMax:
		best, bestAt := float32(0), 0
		for i, c := range n.Children() {
			if v := domain.AsFloat(Evaluate(c, env)); i == 0 || v > best {
				best, bestAt = v, i
			}
		}
		return domain.Category(int32(bestAt))
	case ast.ArgMaxInt:
		best, bestAt := int32(0), 0
		for i, c := range n.Children() {
			if v := domain.AsInt(Evaluate(c, env)); i == 0 || v > best {
				best, bestAt = v, i
			}
		}
		return domain.Category(int32(bestAt))
	case ast.ArrayArgMaxIndex:
		return domain.Int(int32(arrayArgMax(domain.AsArray(Evaluate(n.Child(0), env)))))
	case ast.ArrayAtPos:
		a := domain.AsArray(Evaluate(n.Child(0), env))
		return a.At(int(domain.AsInt(Evaluate(n.Child(1), env))))
	case ast.ArrayAtPosInc:
		slot := n.Child(0).Slot()
		a := domain.AsArray(env.get("array_at_pos_inc", slot))
		i := int(domain.AsInt(Evaluate(n.Child(1), env)))
		a.Set(i, domain.Int(domain.AsInt(a.At(i))+1))
		return missing
	case ast.NewArray:
		size := n.Child(0).Slot()
		init := Evaluate(n.Child(1), env)
		values := make([]domain.Constant, size)
		for i := range values {
			values[i] = domain.CloneConstant(init)
		}
		return domain.NewArray(domain.ArrayOf(init.Type()), values...)
	case ast.ArrayLen:
		return domain.Int(int32(domain.AsArray(Evaluate(n.Child(0), env)).Len()))

	case ast.IntToFloat:
		return domain.Float(float32(domain.AsInt(Evaluate(n.Child(0), env))))
	case ast.IntToCategory:
		return domain.Category(domain.AsInt(Evaluate(n.Child(0), env)))
	case ast.TermFrequency:
		text := domain.AsString(Evaluate(n.Child(0), env))
		word := domain.AsString(Evaluate(n.Child(1), env))
		return domain.Float(termFrequency(text, word))
	}
	domain.Violation("evaluate", "no rule for kind %s", n.Kind())
	return nil
}

func arith(kind ast.Kind, a, b domain.Constant) domain.Constant {
	x, xok := a.(domain.Int)
	y, yok := b.(domain.Int)
	if xok && yok {
		switch kind {
		case ast.Add:
			return x + y
		case ast.Sub:
			return x - y
		default:
			return x * y
		}
	}
	f, g := domain.AsFloat(a), domain.AsFloat(b)
	switch kind {
	case ast.Add:
		return domain.Float(f + g)
	case ast.Sub:
		return domain.Float(f - g)
	default:
		return domain.Float(f * g)
	}
}

func unary(kind ast.Kind, v domain.Constant) domain.Constant {
	switch x := v.(type) {
	case domain.Int:
		switch kind {
		case ast.Neg:
			return -x
		case ast.Sqr:
			return x * x
		default:
			if x < 0 {
				return -x
			}
			return x
		}
	case domain.Float:
		switch kind {
		case ast.Neg:
			return -x
		case ast.Sqr:
			return x * x
		default:
			return domain.Float(math.Abs(float64(x)))
		}
	}
	domain.Violation(kind.String(), "expected float or int, got %s", v.Type())
	return nil
}

func compare(kind ast.Kind, a, b float32) bool {
	switch kind {
	case ast.Lt:
		return a < b
	case ast.Lte:
		return a <= b
	case ast.Gt:
		return a > b
	default:
		return a >= b
	}
}

// arrayArgMax returns the index of the first maximum of a numeric array.
func arrayArgMax(a *domain.Array) int {
	if a.Len() == 0 {
		domain.Violation("array_argmax_index", "empty array")
	}
	best, bestAt := domain.AsFloat(a.At(0)), 0
	for i := 1; i < a.Len(); i++ {
		if v := domain.AsFloat(a.At(i)); v > best {
			best, bestAt = v, i
		}
	}
	return bestAt
}

// termFrequency is the share of whitespace-separated tokens of text equal to
// word; 0 for empty text.
func termFrequency(text, word string) float32 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for _, t := range tokens {
		if t == word {
			hits++
		}
	}
	return float32(hits) / float32(len(tokens))
}
