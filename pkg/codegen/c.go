package codegen

import (
	"strconv"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

type cBackend struct{}

func init() { Register(cBackend{}, "c", "c++") }

var cLiterals = literalSyntax{
	Float:         floatSpelling{Inf: "INFINITY", NegInf: "-INFINITY", NaN: "NAN", Suffix: "f"},
	True:          "1",
	False:         "0",
	Missing:       "NAN",
	Escape:        escapeOctal,
	EscapeExtra:   "?",
	ArrayClose:    "}",
	ArrayOpenFunc: cArrayOpen,
}

func (cBackend) Name() string { return "c" }

func (cBackend) Syntax() Syntax {
	return Syntax{
		Indent:     "    ",
		Terminator: ";",
		Reserved: []string{
			"auto", "break", "case", "char", "const", "continue", "default", "do", "double",
			"else", "enum", "extern", "float", "for", "goto", "if", "inline", "int", "long",
			"register", "restrict", "return", "short", "signed", "sizeof", "static", "struct",
			"switch", "typedef", "union", "unsigned", "void", "volatile", "while",
			"bool", "true", "false", "class", "new", "delete", "this", "NULL",
			"abs", "fabsf", "sqrtf", "expf", "isnan", "strcmp", "strlen", "strncmp", "isspace",
			"argmax_f", "argmax_i", "in_i", "in_f", "in_s", "fill_i", "fill_f", "fill_s",
			"sqr_i", "sqr_f", "term_frequency",
		},
	}
}

// cType spells a scalar type; arrays yield their element pointer type.
func cType(t domain.Type) (string, bool) {
	switch t {
	case domain.TypeFloat, domain.TypeMissing:
		return "float", true
	case domain.TypeInt, domain.TypeCategory, domain.TypeBool:
		return "int", true
	case domain.TypeString:
		return "const char *", true
	case domain.TypeIntArray, domain.TypeCategoryArray:
		return "int *", true
	case domain.TypeFloatArray:
		return "float *", true
	case domain.TypeStringArray:
		return "const char **", true
	}
	return "", false
}

// cSuffix picks the helper variant for values of t.
func cSuffix(t domain.Type) string {
	switch t {
	case domain.TypeFloat, domain.TypeMissing:
		return "f"
	case domain.TypeString:
		return "s"
	default:
		return "i"
	}
}

func cInputType(t domain.InputType) string {
	switch t {
	case domain.InputCategorical:
		return "int"
	case domain.InputText:
		return "const char *"
	default:
		return "float"
	}
}

func cArrayOpen(ctx *Context, a *domain.Array) (string, bool) {
	elem := a.Type().Elem()
	if elem == domain.TypeMissing {
		ctx.Errorf(ast.ArrayLiteral, "mixed arrays have no C representation")
		return "", false
	}
	if a.Len() == 0 {
		return "", false
	}
	t, _ := cType(elem)
	return "(" + t + "[]){", true
}

const cHelpers = `static int argmax_f(int n, const float *v) {
    int best = 0;
    for (int i = 1; i < n; i++) {
        if (v[i] > v[best]) {
            best = i;
        }
    }
    return best;
}

static int argmax_i(int n, const int *v) {
    int best = 0;
    for (int i = 1; i < n; i++) {
        if (v[i] > v[best]) {
            best = i;
        }
    }
    return best;
}

`

const cInHelpers = `static int in_i(int x, const int *v, int n) {
    for (int i = 0; i < n; i++) {
        if (v[i] == x) {
            return 1;
        }
    }
    return 0;
}

static int in_f(float x, const float *v, int n) {
    for (int i = 0; i < n; i++) {
        if (v[i] == x) {
            return 1;
        }
    }
    return 0;
}

static int in_s(const char *x, const char **v, int n) {
    for (int i = 0; i < n; i++) {
        if (strcmp(v[i], x) == 0) {
            return 1;
        }
    }
    return 0;
}

`

const cFillHelpers = `static int *fill_i(int *buf, int n, int x) {
    for (int i = 0; i < n; i++) {
        buf[i] = x;
    }
    return buf;
}

static float *fill_f(float *buf, int n, float x) {
    for (int i = 0; i < n; i++) {
        buf[i] = x;
    }
    return buf;
}

static const char **fill_s(const char **buf, int n, const char *x) {
    for (int i = 0; i < n; i++) {
        buf[i] = x;
    }
    return buf;
}

`

const cSqrHelpers = `static int sqr_i(int x) {
    return x * x;
}

static float sqr_f(float x) {
    return x * x;
}

`

const cTermFrequency = `static float term_frequency(const char *text, const char *word) {
    size_t wlen = strlen(word);
    int tokens = 0;
    int hits = 0;
    const char *p = text;
    while (*p) {
        while (*p && isspace((unsigned char)*p)) {
            p++;
        }
        if (!*p) {
            break;
        }
        const char *start = p;
        while (*p && !isspace((unsigned char)*p)) {
            p++;
        }
        tokens++;
        if ((size_t)(p - start) == wlen && strncmp(start, word, wlen) == 0) {
            hits++;
        }
    }
    return tokens ? (float)hits / (float)tokens : 0.0f;
}

`

func (cBackend) WriteHeader(ctx *Context) {
	out := ctx.Out
	out.Line("#include <math.h>")
	out.Line("#include <stdlib.h>")
	out.Line("#include <string.h>")
	if ctx.Uses(ast.TermFrequency) {
		out.Line("#include <ctype.h>")
	}
	out.Newline()
	if ctx.Uses(ast.ArgMax, ast.ArgMaxInt, ast.ArrayArgMaxIndex) {
		out.Write(cHelpers)
	}
	if ctx.Uses(ast.In) {
		out.Write(cInHelpers)
	}
	if ctx.Uses(ast.NewArray) {
		out.Write(cFillHelpers)
	}
	if ctx.Uses(ast.Sqr) {
		out.Write(cSqrHelpers)
	}
	if ctx.Uses(ast.TermFrequency) {
		out.Write(cTermFrequency)
	}

	ret, ok := cType(InferType(ctx.Root, ctx))
	if !ok || ret[len(ret)-1] == '*' && ret != "const char *" {
		ctx.Errorf(ctx.Root.Kind(), "predict must return a scalar")
		ret = "float"
	}
	out.Write(ret)
	if ret[len(ret)-1] != '*' {
		out.Write(" ")
	}
	out.Write("predict(")
	if len(ctx.Params()) == 0 {
		out.Write("void")
	}
	for i, p := range ctx.Params() {
		if i > 0 {
			out.Write(", ")
		}
		t := cInputType(ctx.Model.Signature.TypeOf(i))
		out.Write(t)
		if t[len(t)-1] != '*' {
			out.Write(" ")
		}
		out.Write(p)
	}
	out.Line(") {")
	out.Indent()
	cDeclareLocals(ctx)
}

// cDeclareLocals declares one variable per local slot, typed from the
// slot's assignment. Arrays built by new_array get a backing buffer.
func cDeclareLocals(ctx *Context) {
	for slot := 0; slot < ctx.Locals(); slot++ {
		def := LocalDefinition(ctx.Root, slot)
		if def == nil {
			continue
		}
		name := ctx.Local(slot)
		if def.Kind() == ast.ForLocal {
			ctx.Out.Line("int " + name + ";")
			continue
		}
		t := InferType(def.Child(1), ctx)
		spelled, ok := cType(t)
		if !ok {
			ctx.Errorf(ast.SetLocal, "local %d has type %s, which C cannot declare", slot, t)
			continue
		}
		if value := def.Child(1); value.Kind() == ast.NewArray {
			elem, _ := cType(t.Elem())
			ctx.Out.Printf("%s %s_buf[%d];\n", elem, name, value.Child(0).Slot())
		}
		if spelled[len(spelled)-1] == '*' {
			ctx.Out.Line(spelled + name + ";")
		} else {
			ctx.Out.Line(spelled + " " + name + ";")
		}
	}
}

func (cBackend) WriteFooter(ctx *Context) {
	ctx.Out.Dedent()
	ctx.Out.Line("}")
}

func (cBackend) Table() map[ast.Kind]WriteFunc {
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
			ctx.Out.Write("NAN")
		},
		ast.Constant:     cConstant,
		ast.ArrayLiteral: cConstant,
		ast.Param:        writeParam,
		ast.SetLocal:     cSetLocal,
		ast.GetLocal:     writeGetLocal,
		ast.IncLocal: func(ctx *Context, n *ast.Node) {
			statementLine(ctx, ctx.Local(n.Slot())+"++")
		},
		ast.Add: infix("+"),
		ast.Sub: infix("-"),
		ast.Mul: infix("*"),
		ast.Div: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write("(float)")
			ctx.Expr(n.Child(0))
			ctx.Out.Write(" / ")
			ctx.Expr(n.Child(1))
		},
		ast.Neg: prefix("-"),
		ast.Sqr: func(ctx *Context, n *ast.Node) {
			call("sqr_"+cSuffix(InferType(n.Child(0), ctx)))(ctx, n)
		},
		ast.Sqrt: call("sqrtf"),
		ast.Exp:  call("expf"),
		ast.Abs: func(ctx *Context, n *ast.Node) {
			if cSuffix(InferType(n.Child(0), ctx)) == "f" {
				call("fabsf")(ctx, n)
				return
			}
			call("abs")(ctx, n)
		},
		ast.Lt:  infix("<"),
		ast.Lte: infix("<="),
		ast.Gt:  infix(">"),
		ast.Gte: infix(">="),
		ast.Eq: func(ctx *Context, n *ast.Node) {
			if InferType(n.Child(0), ctx) == domain.TypeString {
				ctx.Out.Write("(strcmp(")
				ctx.Args(n.Child(0), n.Child(1))
				ctx.Out.Write(") == 0)")
				return
			}
			infix("==")(ctx, n)
		},
		ast.And: infix("&&"),
		ast.Or:  infix("||"),
		ast.Not: wrapped("!(", ")"),
		ast.In: func(ctx *Context, n *ast.Node) {
			arr := n.Child(1)
			size, ok := StaticLen(arr)
			if !ok {
				ctx.Errorf(ast.In, "array length is not known statically")
			}
			ctx.Out.Write("in_" + cSuffix(InferType(arr, ctx).Elem()) + "(")
			ctx.Args(n.Child(0), arr)
			ctx.Out.Printf(", %d)", size)
		},
		ast.IsMissing: func(ctx *Context, n *ast.Node) {
			switch InferType(n.Child(0), ctx) {
			case domain.TypeFloat, domain.TypeMissing:
				call("isnan")(ctx, n)
			case domain.TypeString:
				wrapped("(", " == NULL)")(ctx, n)
			default:
				ctx.Out.Write("0")
			}
		},
		ast.ArgMax:    cArgMax("f", "float"),
		ast.ArgMaxInt: cArgMax("i", "int"),
		ast.ArrayArgMaxIndex: func(ctx *Context, n *ast.Node) {
			arr := n.Child(0)
			size, ok := StaticLen(arr)
			if !ok {
				ctx.Errorf(ast.ArrayArgMaxIndex, "array length is not known statically")
			}
			ctx.Out.Printf("argmax_%s(%d, ", cSuffix(InferType(arr, ctx).Elem()), size)
			ctx.Expr(arr)
			ctx.Out.Write(")")
		},
		ast.ArrayAtPos: writeIndexed,
		ast.ArrayAtPosInc: func(ctx *Context, n *ast.Node) {
			ctx.Out.Write(ctx.Local(n.Child(0).Slot()) + "[")
			ctx.Expr(n.Child(1))
			ctx.Out.Line("]++;")
		},
		ast.NewArray: func(ctx *Context, n *ast.Node) {
			ctx.Errorf(ast.NewArray, "C arrays must be created by assigning them to a local")
		},
		ast.ArrayLen: func(ctx *Context, n *ast.Node) {
			size, ok := StaticLen(n.Child(0))
			if !ok {
				ctx.Errorf(ast.ArrayLen, "array length is not known statically")
			}
			ctx.Out.Write(strconv.Itoa(size))
		},
		ast.IntToFloat:    wrapped("(float)(", ")"),
		ast.IntToCategory: wrapped("(", ")"),
		ast.TermFrequency: call("term_frequency"),
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

func cConstant(ctx *Context, n *ast.Node) {
	ctx.Out.Write(cLiterals.constant(ctx, n.Value()))
}

func cSetLocal(ctx *Context, n *ast.Node) {
	name := ctx.Local(n.Child(0).Slot())
	value := n.Child(1)
	if value.Kind() != ast.NewArray {
		ctx.Out.Write(name + " = ")
		ctx.Expr(value)
		ctx.Out.Line(";")
		return
	}
	suffix := cSuffix(InferType(value.Child(1), ctx))
	ctx.Out.Printf("%s = fill_%s(%s_buf, %d, ", name, suffix, name, value.Child(0).Slot())
	ctx.Expr(value.Child(1))
	ctx.Out.Line(");")
}

func cArgMax(suffix, elem string) WriteFunc {
	return func(ctx *Context, n *ast.Node) {
		ctx.Out.Printf("argmax_%s(%d, (%s[]){", suffix, n.Len(), elem)
		ctx.Args(n.Children()...)
		ctx.Out.Write("})")
	}
}
