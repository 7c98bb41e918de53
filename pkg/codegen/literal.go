package codegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

// escapeStyle selects how control bytes are escaped in string literals.
type escapeStyle int

const (
	escapeOctal escapeStyle = iota
	escapeHex
)

// quote renders s as a double-quoted literal. Quotes, backslashes and
// control bytes are escaped; other bytes, UTF-8 included, are kept as is.
// Every byte listed in extra is backslash-escaped as well.
func quote(s string, style escapeStyle, extra string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == '"' || b == '\\' || strings.IndexByte(extra, b) >= 0:
			sb.WriteByte('\\')
			sb.WriteByte(b)
		case b == '\n':
			sb.WriteString(`\n`)
		case b == '\t':
			sb.WriteString(`\t`)
		case b == '\r':
			sb.WriteString(`\r`)
		case b < 0x20 || b == 0x7f:
			if style == escapeOctal {
				fmt.Fprintf(&sb, `\%03o`, b)
			} else {
				fmt.Fprintf(&sb, `\x%02x`, b)
			}
		default:
			sb.WriteByte(b)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// floatSpelling names the non-finite values of a language.
type floatSpelling struct {
	Inf, NegInf, NaN string
	Suffix           string
}

func formatFloat(f float32, sp floatSpelling) string {
	switch {
	case math.IsNaN(float64(f)):
		return sp.NaN
	case math.IsInf(float64(f), 1):
		return sp.Inf
	case math.IsInf(float64(f), -1):
		return sp.NegInf
	}
	return domain.Float(f).String() + sp.Suffix
}

// literalSyntax spells constants for one language.
type literalSyntax struct {
	Float         floatSpelling
	True, False   string
	Missing       string
	Escape        escapeStyle
	EscapeExtra   string
	ArrayOpen     string
	ArrayClose    string
	ArrayOpenFunc func(ctx *Context, a *domain.Array) (string, bool)
}

func (ls literalSyntax) constant(ctx *Context, c domain.Constant) string {
	switch v := c.(type) {
	case domain.Float:
		return formatFloat(float32(v), ls.Float)
	case domain.Int:
		return v.String()
	case domain.Category:
		return fmt.Sprintf("%d", int32(v))
	case domain.Bool:
		if v {
			return ls.True
		}
		return ls.False
	case domain.String:
		return quote(string(v), ls.Escape, ls.EscapeExtra)
	case domain.Missing:
		return ls.Missing
	case *domain.Array:
		return ls.array(ctx, v)
	}
	ctx.Errorf(ast.Constant, "unknown constant %T", c)
	return ls.Missing
}

func (ls literalSyntax) array(ctx *Context, a *domain.Array) string {
	open := ls.ArrayOpen
	if ls.ArrayOpenFunc != nil {
		var ok bool
		if open, ok = ls.ArrayOpenFunc(ctx, a); !ok {
			return ls.Missing
		}
	}
	var sb strings.Builder
	sb.WriteString(open)
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ls.constant(ctx, v))
	}
	sb.WriteString(ls.ArrayClose)
	return sb.String()
}
