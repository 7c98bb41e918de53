package codegen

import "github.com/aretw0/arbor/pkg/ast"

// Write function builders shared by the backends.

// infix writes "a op b".
func infix(op string) WriteFunc {
	return func(ctx *Context, n *ast.Node) {
		ctx.Expr(n.Child(0))
		ctx.Out.Write(" " + op + " ")
		ctx.Expr(n.Child(1))
	}
}

// prefix writes "op a".
func prefix(op string) WriteFunc {
	return func(ctx *Context, n *ast.Node) {
		ctx.Out.Write(op)
		ctx.Expr(n.Child(0))
	}
}

// call writes "name(children...)".
func call(name string) WriteFunc {
	return func(ctx *Context, n *ast.Node) {
		ctx.Out.Write(name + "(")
		ctx.Args(n.Children()...)
		ctx.Out.Write(")")
	}
}

// wrapped writes "open a closing" around the only child.
func wrapped(open, closing string) WriteFunc {
	return func(ctx *Context, n *ast.Node) {
		ctx.Out.Write(open)
		ctx.Expr(n.Child(0))
		ctx.Out.Write(closing)
	}
}

// method writes "(a).name(rest...)" or "(a).name" when rest is empty.
func method(name string) WriteFunc {
	return func(ctx *Context, n *ast.Node) {
		ctx.Out.Write("(")
		ctx.Expr(n.Child(0))
		ctx.Out.Write(")." + name)
		if n.Len() > 1 {
			ctx.Out.Write("(")
			ctx.Args(n.Children()[1:]...)
			ctx.Out.Write(")")
		}
	}
}

func writeBrackets(ctx *Context, n *ast.Node) {
	ctx.Out.Write("(")
	ctx.Expr(n.Child(0))
	ctx.Out.Write(")")
}

func writeBlock(ctx *Context, n *ast.Node) {
	for _, c := range n.Children() {
		ctx.Stmt(c)
	}
}

func writeParam(ctx *Context, n *ast.Node) {
	ctx.Out.Write(ctx.Param(n.Slot()))
}

func writeGetLocal(ctx *Context, n *ast.Node) {
	ctx.Out.Write(ctx.Local(n.Slot()))
}

// writeIndexed writes "arr[i]".
func writeIndexed(ctx *Context, n *ast.Node) {
	ctx.Expr(n.Child(0))
	ctx.Out.Write("[")
	ctx.Expr(n.Child(1))
	ctx.Out.Write("]")
}

// writeTernary writes "c ? a : b".
func writeTernary(ctx *Context, n *ast.Node) {
	ctx.Expr(n.Child(0))
	ctx.Out.Write(" ? ")
	ctx.Expr(n.Child(1))
	ctx.Out.Write(" : ")
	ctx.Expr(n.Child(2))
}

// braceIf writes the statement form shared by C and JavaScript, or the
// ternary when the value is consumed.
func braceIf(ctx *Context, n *ast.Node) {
	if !InStatement(n) {
		writeTernary(ctx, n)
		return
	}
	ctx.Out.Write("if (")
	ctx.Expr(n.Child(0))
	ctx.Out.Line(") {")
	ctx.Out.Indent()
	ctx.Stmt(n.Child(1))
	ctx.Out.Dedent()
	ctx.Out.Line("} else {")
	ctx.Out.Indent()
	ctx.Stmt(n.Child(2))
	ctx.Out.Dedent()
	ctx.Out.Line("}")
}

// statementLine writes s followed by the terminator and a newline.
func statementLine(ctx *Context, s string) {
	ctx.Out.Write(s)
	ctx.Out.Write(ctx.syntax.Terminator)
	ctx.Out.Newline()
}

func writeReturn(ctx *Context, n *ast.Node) {
	ctx.Out.Write("return ")
	ctx.Expr(n.Child(0))
	ctx.Out.Write(ctx.syntax.Terminator)
	ctx.Out.Newline()
}
