package codegen

import (
	"github.com/aretw0/arbor/pkg/ast"
)

type javascript struct{}

func init() { Register(javascript{}, "javascript", "js") }

var javascriptLiterals = literalSyntax{
	Float:      floatSpelling{Inf: "Infinity", NegInf: "-Infinity", NaN: "NaN"},
	True:       "true",
	False:      "false",
	Missing:    "null",
	Escape:     escapeHex,
	ArrayOpen:  "[",
	ArrayClose: "]",
}

func (javascript) Name() string { return "javascript" }

func (javascript) Syntax() Syntax {
	return Syntax{
		Indent:     "  ",
		Terminator: ";",
		Reserved: []string{
			"break", "case", "catch", "class", "const", "continue", "debugger", "default",
			"delete", "do", "else", "enum", "export", "extends", "false", "finally", "for",
			"function", "if", "import", "in", "instanceof", "let", "new", "null", "return",
			"super", "switch", "this", "throw", "true", "try", "typeof", "var", "void",
			"while", "with", "yield", "await", "static", "implements", "interface",
			"package", "private", "protected", "public", "arguments", "eval",
			"Math", "Array", "Number", "Infinity", "NaN", "undefined", "argmax", "termFrequency",
		},
	}
}

func (javascript) WriteHeader(ctx *Context) {
	out := ctx.Out
	if ctx.Uses(ast.ArgMax, ast.ArgMaxInt, ast.ArrayArgMaxIndex) {
		out.Write(`function argmax(values) {
  let best = 0;
  for (let i = 1; i < values.length; i++) {
    if (values[i] > values[best]) {
      best = i;
    }
  }
  return best;
}

`)
	}
	if ctx.Uses(ast.TermFrequency) {
		out.Write(`function termFrequency(text, word) {
  const tokens = text.split(/\s+/).filter((t) => t.length > 0);
  if (tokens.length === 0) {
    return 0;
  }
  return tokens.filter((t) => t === word).length / tokens.length;
}

`)
	}
	out.Write("function predict(")
	for i, p := range ctx.Params() {
		if i > 0 {
			out.Write(", ")
		}
		out.Write(p)
	}
	out.Line(") {")
	out.Indent()
	if n := ctx.Locals(); n > 0 {
		out.Write("let ")
		for slot := 0; slot < n; slot++ {
			if slot > 0 {
				out.Write(", ")
			}
			out.Write(ctx.Local(slot))
		}
		out.Line(";")
	}
}

func (javascript) WriteFooter(ctx *Context) {
	ctx.Out.Dedent()
	ctx.Out.Line("}")
}

func (javascript) Table() map[ast.Kind]WriteFunc {
	return map[ast.Kind]WriteFunc{
		ast.Block:    writeBlock,
		ast.If:       braceIf,
		ast.Return:   writeReturn,
		ast.Brackets: writeBrackets,
		ast.Nop: func(ctx *Context, n *ast.Node) {
			if InStatement(n) {
				ctx.Out.Line(";")
				return
			}
			ctx.Out.Write("null")
		},
		ast.Constant:     javascriptConstant,
		ast.ArrayLiteral: javascriptConstant,
		ast.Param:        writeParam,
		ast.SetLocal: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write(ctx.Local(n.Child(0).Slot()) + " = ")
			ctx.Expr(n.Child(1))
			ctx.Out.Line(";")
		},
		ast.GetLocal: writeGetLocal,
		ast.IncLocal: func(ctx *Context, n *ast.Node) {
			statementLine(ctx, ctx.Local(n.Slot())+"++")
		},
		ast.Add: infix("+"),
		ast.Sub: infix("-"),
		ast.Mul: infix("*"),
		ast.Div: infix("/"),
		ast.Neg: prefix("-"),
		ast.Sqr: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write("Math.pow(")
			ctx.Expr(n.Child(0))
			ctx.Out.Write(", 2)")
		},
		ast.Sqrt: call("Math.sqrt"),
		ast.Exp:  call("Math.exp"),
		ast.Abs:  call("Math.abs"),
		ast.Lt:   infix("<"),
		ast.Lte:  infix("<="),
		ast.Gt:   infix(">"),
		ast.Gte:  infix(">="),
		ast.Eq:   infix("==="),
		ast.And:  infix("&&"),
		ast.Or:   infix("||"),
		ast.Not:  wrapped("!(", ")"),
		ast.In: func(ctx *Context, n *ast.Node) {
			ctx.Expr(n.Child(1))
			ctx.Out.Write(".includes(")
			ctx.Expr(n.Child(0))
			ctx.Out.Write(")")
		},
		ast.IsMissing: wrapped("(", " == null)"),
		ast.ArgMax: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write("argmax([")
			ctx.Args(n.Children()...)
			ctx.Out.Write("])")
		},
		ast.ArgMaxInt: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write("argmax([")
			ctx.Args(n.Children()...)
			ctx.Out.Write("])")
		},
		ast.ArrayArgMaxIndex: call("argmax"),
		ast.ArrayAtPos:       writeIndexed,
		ast.ArrayAtPosInc: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write(ctx.Local(n.Child(0).Slot()) + "[")
			ctx.Expr(n.Child(1))
			ctx.Out.Line("]++;")
		},
		ast.NewArray: func(ctx *Context, n *ast.Node) {
			ctx.Out.Printf("Array.from({ length: %d }, () => ", n.Child(0).Slot())
			ctx.Expr(n.Child(1))
			ctx.Out.Write(")")
		},
		ast.ArrayLen:      method("length"),
		ast.IntToFloat:    wrapped("(", ")"),
		ast.IntToCategory: call("Math.trunc"),
		ast.TermFrequency: call("termFrequency"),
		ast.ForLocal: func(ctx *Context, n *ast.Node) {
			v := ctx.Local(n.Child(0).Slot())
			ctx.Out.Printf("for (%s = 0; %s < %d; %s++) {\n", v, v, n.Child(1).Slot(), v)
			ctx.Out.Indent()
			ctx.Stmt(n.Child(2))
			ctx.Out.Dedent()
			ctx.Out.Line("}")
		},
	}
}

func javascriptConstant(ctx *Context, n *ast.Node) {
	ctx.Out.Write(javascriptLiterals.constant(ctx, n.Value()))
}
