package codegen

import (
	"github.com/aretw0/arbor/pkg/ast"
)

type python struct{}

func init() { Register(python{}, "python") }

var pythonLiterals = literalSyntax{
	Float:      floatSpelling{Inf: `float("inf")`, NegInf: `float("-inf")`, NaN: `float("nan")`},
	True:       "True",
	False:      "False",
	Missing:    "None",
	Escape:     escapeOctal,
	ArrayOpen:  "[",
	ArrayClose: "]",
}

func (python) Name() string { return "python" }

func (python) Syntax() Syntax {
	return Syntax{
		Indent: "    ",
		Reserved: []string{
			"False", "None", "True", "and", "as", "assert", "async", "await", "break",
			"class", "continue", "def", "del", "elif", "else", "except", "finally", "for",
			"from", "global", "if", "import", "in", "is", "lambda", "nonlocal", "not", "or",
			"pass", "raise", "return", "try", "while", "with", "yield",
			"math", "float", "int", "len", "abs", "range",
		},
	}
}

func (python) WriteHeader(ctx *Context) {
	out := ctx.Out
	if ctx.Uses(ast.Sqrt, ast.Exp) {
		out.Line("import math")
		out.Newline()
		out.Newline()
	}
	if ctx.Uses(ast.ArgMax, ast.ArgMaxInt, ast.ArrayArgMaxIndex) {
		out.Write(`def _argmax(values):
    best = 0
    for i in range(1, len(values)):
        if values[i] > values[best]:
            best = i
    return best


`)
	}
	if ctx.Uses(ast.TermFrequency) {
		out.Write(`def _term_frequency(text, word):
    tokens = text.split()
    if not tokens:
        return 0.0
    return tokens.count(word) / len(tokens)


`)
	}
	out.Write("def predict(")
	for i, p := range ctx.Params() {
		if i > 0 {
			out.Write(", ")
		}
		out.Write(p)
	}
	out.Line("):")
	out.Indent()
}

func (python) WriteFooter(ctx *Context) {
	ctx.Out.Dedent()
}

func (python) Table() map[ast.Kind]WriteFunc {
	return map[ast.Kind]WriteFunc{
		ast.Block:    writeBlock,
		ast.If:       pythonIf,
		ast.Return:   writeReturn,
		ast.Brackets: writeBrackets,
		ast.Nop: func(ctx *Context, n *ast.Node) {
			if InStatement(n) {
				ctx.Out.Line("pass")
				return
			}
			ctx.Out.Write("None")
		},
		ast.Constant:     pythonConstant,
		ast.ArrayLiteral: pythonConstant,
		ast.Param:        writeParam,
		ast.SetLocal: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write(ctx.Local(n.Child(0).Slot()) + " = ")
			ctx.Expr(n.Child(1))
			ctx.Out.Newline()
		},
		ast.GetLocal: writeGetLocal,
		ast.IncLocal: func(ctx *Context, n *ast.Node) {
			ctx.Out.Line(ctx.Local(n.Slot()) + " += 1")
		},
		ast.Add:       infix("+"),
		ast.Sub:       infix("-"),
		ast.Mul:       infix("*"),
		ast.Div:       infix("/"),
		ast.Neg:       prefix("-"),
		ast.Sqr:       wrapped("", " ** 2"),
		ast.Sqrt:      call("math.sqrt"),
		ast.Exp:       call("math.exp"),
		ast.Abs:       call("abs"),
		ast.Lt:        infix("<"),
		ast.Lte:       infix("<="),
		ast.Gt:        infix(">"),
		ast.Gte:       infix(">="),
		ast.Eq:        infix("=="),
		ast.And:       infix("and"),
		ast.Or:        infix("or"),
		ast.Not:       prefix("not "),
		ast.In:        infix("in"),
		ast.IsMissing: wrapped("(", " is None)"),
		ast.ArgMax: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write("_argmax([")
			ctx.Args(n.Children()...)
			ctx.Out.Write("])")
		},
		ast.ArgMaxInt: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write("_argmax([")
			ctx.Args(n.Children()...)
			ctx.Out.Write("])")
		},
		ast.ArrayArgMaxIndex: call("_argmax"),
		ast.ArrayAtPos:       writeIndexed,
		ast.ArrayAtPosInc: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write(ctx.Local(n.Child(0).Slot()) + "[")
			ctx.Expr(n.Child(1))
			ctx.Out.Line("] += 1")
		},
		ast.NewArray: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write("[")
			ctx.Expr(n.Child(1))
			ctx.Out.Printf(" for _ in range(%d)]", n.Child(0).Slot())
		},
		ast.ArrayLen:      call("len"),
		ast.IntToFloat:    call("float"),
		ast.IntToCategory: call("int"),
		ast.TermFrequency: call("_term_frequency"),
		ast.ForLocal: func(ctx *Context, n *ast.Node) {
			ctx.Out.Printf("for %s in range(%d):\n", ctx.Local(n.Child(0).Slot()), n.Child(1).Slot())
			ctx.Out.Indent()
			ctx.Stmt(n.Child(2))
			ctx.Out.Dedent()
		},
	}
}

func pythonConstant(ctx *Context, n *ast.Node) {
	ctx.Out.Write(pythonLiterals.constant(ctx, n.Value()))
}

func pythonIf(ctx *Context, n *ast.Node) {
	if !InStatement(n) {
		ctx.Expr(n.Child(1))
		ctx.Out.Write(" if ")
		ctx.Expr(n.Child(0))
		ctx.Out.Write(" else ")
		ctx.Expr(n.Child(2))
		return
	}
	ctx.Out.Write("if ")
	ctx.Expr(n.Child(0))
	ctx.Out.Line(":")
	ctx.Out.Indent()
	ctx.Stmt(n.Child(1))
	ctx.Out.Dedent()
	ctx.Out.Line("else:")
	ctx.Out.Indent()
	ctx.Stmt(n.Child(2))
	ctx.Out.Dedent()
}
