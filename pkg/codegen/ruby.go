package codegen

import (
	"github.com/aretw0/arbor/pkg/ast"
)

type ruby struct{}

func init() { Register(ruby{}, "ruby", "rb") }

var rubyLiterals = literalSyntax{
	Float:       floatSpelling{Inf: "Float::INFINITY", NegInf: "-Float::INFINITY", NaN: "Float::NAN"},
	True:        "true",
	False:       "false",
	Missing:     "nil",
	Escape:      escapeHex,
	EscapeExtra: "#",
	ArrayOpen:   "[",
	ArrayClose:  "]",
}

func (ruby) Name() string { return "ruby" }

// Ruby reads capitalized identifiers as constants, so params are lowered.
func (ruby) Syntax() Syntax {
	return Syntax{
		Indent:      "  ",
		LowerParams: true,
		Reserved: []string{
			"BEGIN", "END", "alias", "and", "begin", "break", "case", "class", "def",
			"defined?", "do", "else", "elsif", "end", "ensure", "false", "for", "if", "in",
			"module", "next", "nil", "not", "or", "redo", "rescue", "retry", "return",
			"self", "super", "then", "true", "undef", "unless", "until", "when", "while",
			"yield", "argmax", "term_frequency",
		},
	}
}

func (ruby) WriteHeader(ctx *Context) {
	out := ctx.Out
	if ctx.Uses(ast.ArgMax, ast.ArgMaxInt, ast.ArrayArgMaxIndex) {
		out.Write(`def argmax(values)
  best = 0
  (1...values.length).each do |i|
    best = i if values[i] > values[best]
  end
  best
end

`)
	}
	if ctx.Uses(ast.TermFrequency) {
		out.Write(`def term_frequency(text, word)
  tokens = text.split
  return 0.0 if tokens.empty?
  tokens.count(word).fdiv(tokens.length)
end

`)
	}
	out.Write("def predict(")
	for i, p := range ctx.Params() {
		if i > 0 {
			out.Write(", ")
		}
		out.Write(p)
	}
	out.Line(")")
	out.Indent()
}

func (ruby) WriteFooter(ctx *Context) {
	ctx.Out.Dedent()
	ctx.Out.Line("end")
}

func (ruby) Table() map[ast.Kind]WriteFunc {
	return map[ast.Kind]WriteFunc{
		ast.Block:    writeBlock,
		ast.If:       rubyIf,
		ast.Return:   writeReturn,
		ast.Brackets: writeBrackets,
		ast.Nop: func(ctx *Context, n *ast.Node) {
			if InStatement(n) {
				ctx.Out.Line("nil")
				return
			}
			ctx.Out.Write("nil")
		},
		ast.Constant:     rubyConstant,
		ast.ArrayLiteral: rubyConstant,
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
		ast.Add: infix("+"),
		ast.Sub: infix("-"),
		ast.Mul: infix("*"),
		ast.Div: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write("(")
			ctx.Expr(n.Child(0))
			ctx.Out.Write(").fdiv(")
			ctx.Expr(n.Child(1))
			ctx.Out.Write(")")
		},
		ast.Neg:  prefix("-"),
		ast.Sqr:  wrapped("", " ** 2"),
		ast.Sqrt: call("Math.sqrt"),
		ast.Exp:  call("Math.exp"),
		ast.Abs:  method("abs"),
		ast.Lt:   infix("<"),
		ast.Lte:  infix("<="),
		ast.Gt:   infix(">"),
		ast.Gte:  infix(">="),
		ast.Eq:   infix("=="),
		ast.And:  infix("&&"),
		ast.Or:   infix("||"),
		ast.Not:  wrapped("!(", ")"),
		ast.In: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write("(")
			ctx.Expr(n.Child(1))
			ctx.Out.Write(").include?(")
			ctx.Expr(n.Child(0))
			ctx.Out.Write(")")
		},
		ast.IsMissing: method("nil?"),
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
			ctx.Out.Line("] += 1")
		},
		ast.NewArray: func(ctx *Context, n *ast.Node) {
			ctx.Out.Printf("Array.new(%d) { ", n.Child(0).Slot())
			ctx.Expr(n.Child(1))
			ctx.Out.Write(" }")
		},
		ast.ArrayLen:      method("length"),
		ast.IntToFloat:    method("to_f"),
		ast.IntToCategory: method("to_i"),
		ast.TermFrequency: call("term_frequency"),
		ast.ForLocal: func(ctx *Context, n *ast.Node) {
			ctx.Out.Printf("for %s in 0...%d\n", ctx.Local(n.Child(0).Slot()), n.Child(1).Slot())
			ctx.Out.Indent()
			ctx.Stmt(n.Child(2))
			ctx.Out.Dedent()
			ctx.Out.Line("end")
		},
	}
}

func rubyConstant(ctx *Context, n *ast.Node) {
	ctx.Out.Write(rubyLiterals.constant(ctx, n.Value()))
}

func rubyIf(ctx *Context, n *ast.Node) {
	if !InStatement(n) {
		writeTernary(ctx, n)
		return
	}
	ctx.Out.Write("if ")
	ctx.Expr(n.Child(0))
	ctx.Out.Newline()
	ctx.Out.Indent()
	ctx.Stmt(n.Child(1))
	ctx.Out.Dedent()
	ctx.Out.Line("else")
	ctx.Out.Indent()
	ctx.Stmt(n.Child(2))
	ctx.Out.Dedent()
	ctx.Out.Line("end")
}
