package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/arbor/pkg/domain"
)

// The textual form is an s-expression per node:
//
//	(if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)
//
// Bare literals are constant leaves: 1.5 is a Float, 42 an Int, #3 a
// Category, "x" a String, true/false a Bool and missing a Missing value.
// [1 2 3] is an array literal; a type prefix such as int_array[] pins the
// array variant when it cannot be inferred from the elements. A ';' starts
// a comment running to the end of the line.

// ParseError reports a malformed textual program.
type ParseError struct {
	Line, Col int
	Msg       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOpen
	tokClose
	tokOpenArray
	tokCloseArray
	tokAtom
	tokString
)

type token struct {
	kind      tokenKind
	text      string
	line, col int
}

type lexer struct {
	src       []rune
	pos       int
	line, col int
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line, col: l.col}, nil
	}
	t := token{line: l.line, col: l.col}
	r := l.src[l.pos]
	switch r {
	case '(':
		t.kind = tokOpen
	case ')':
		t.kind = tokClose
	case '[':
		t.kind = tokOpenArray
	case ']':
		t.kind = tokCloseArray
	case '"':
		return l.readString(t)
	default:
		start := l.pos
		for l.pos < len(l.src) && !isDelimiter(l.src[l.pos]) {
			l.advance()
		}
		t.kind = tokAtom
		t.text = string(l.src[start:l.pos])
		return t, nil
	}
	l.advance()
	return t, nil
}

func (l *lexer) readString(t token) (token, error) {
	start := l.pos
	l.advance()
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.advance()
		case '"':
			l.advance()
			s, err := strconv.Unquote(string(l.src[start:l.pos]))
			if err != nil {
				return t, &ParseError{Line: t.line, Col: t.col, Msg: "bad string literal"}
			}
			t.kind = tokString
			t.text = s
			return t, nil
		}
		l.advance()
	}
	return t, &ParseError{Line: t.line, Col: t.col, Msg: "unterminated string"}
}

func (l *lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case r == ';':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
		case unicode.IsSpace(r):
			l.advance()
		default:
			return
		}
	}
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune("()[]\";", r)
}

type parser struct {
	lex lexer
	tok token
}

// Parse reads one program in textual form.
func Parse(src string) (*Node, error) {
	p := &parser{lex: lexer{src: []rune(src), line: 1, col: 1}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.node()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q after program", p.tok.text)
	}
	return n, nil
}

// MustParse is Parse for literals in code and tests.
func MustParse(src string) *Node {
	n, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return n
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.tok.line, Col: p.tok.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) node() (*Node, error) {
	switch p.tok.kind {
	case tokOpen:
		return p.compound()
	case tokEOF:
		return nil, p.errorf("unexpected end of input")
	case tokClose, tokCloseArray:
		return nil, p.errorf("unexpected closing bracket")
	}
	c, err := p.literal()
	if err != nil {
		return nil, err
	}
	kind := Constant
	if c.Type().IsArray() {
		kind = ArrayLiteral
	}
	n, err := BuildLeaf(kind, c)
	if err != nil {
		return nil, p.errorf("%v", err)
	}
	return n, nil
}

func (p *parser) compound() (*Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokAtom {
		return nil, p.errorf("expected a node kind")
	}
	kind, ok := KindByName(p.tok.text)
	if !ok {
		return nil, p.errorf("unknown node kind %q", p.tok.text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var n *Node
	if kind.Info().Has(HasEmbeddedValue) {
		c, err := p.literal()
		if err != nil {
			return nil, err
		}
		if n, err = BuildLeaf(kind, c); err != nil {
			return nil, p.errorf("%v", err)
		}
	} else {
		var children []*Node
		for p.tok.kind != tokClose {
			child, err := p.node()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		var err error
		if n, err = Build(kind, children...); err != nil {
			return nil, p.errorf("%v", err)
		}
	}
	if p.tok.kind != tokClose {
		return nil, p.errorf("expected ')' to close %s", kind)
	}
	return n, p.advance()
}

// literal reads one scalar or array literal and advances past it.
func (p *parser) literal() (domain.Constant, error) {
	switch p.tok.kind {
	case tokString:
		s := p.tok.text
		return domain.String(s), p.advance()
	case tokOpenArray:
		return p.array(domain.TypeMissing)
	case tokAtom:
	default:
		return nil, p.errorf("expected a literal")
	}

	text := p.tok.text
	if t, ok := arrayTypeByName(text); ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokOpenArray {
			return nil, p.errorf("expected '[' after %s", text)
		}
		return p.array(t)
	}
	c, err := parseAtom(text)
	if err != nil {
		return nil, p.errorf("%v", err)
	}
	return c, p.advance()
}

func (p *parser) array(typ domain.Type) (domain.Constant, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	values := []domain.Constant{}
	for p.tok.kind != tokCloseArray {
		if p.tok.kind == tokEOF {
			return nil, p.errorf("unterminated array")
		}
		c, err := p.literal()
		if err != nil {
			return nil, err
		}
		values = append(values, c)
	}
	if typ == domain.TypeMissing {
		typ = domain.InferArrayType(values)
	}
	if elem := typ.Elem(); elem != domain.TypeMissing {
		for _, v := range values {
			if v.Type() != elem {
				return nil, p.errorf("%s cannot hold %s", typ, v.Type())
			}
		}
	}
	return domain.NewArray(typ, values...), p.advance()
}

func arrayTypeByName(name string) (domain.Type, bool) {
	for t := domain.TypeIntArray; t <= domain.TypeMixedArray; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}

func parseAtom(text string) (domain.Constant, error) {
	switch text {
	case "true":
		return domain.Bool(true), nil
	case "false":
		return domain.Bool(false), nil
	case "missing":
		return domain.Missing{}, nil
	}
	if strings.HasPrefix(text, "#") {
		c, err := strconv.ParseInt(text[1:], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad category %q", text)
		}
		return domain.Category(c), nil
	}
	if strings.ContainsAny(text, ".eEIN") {
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fmt.Errorf("bad float %q", text)
		}
		return domain.Float(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("bad literal %q", text)
	}
	return domain.Int(i), nil
}

// Format renders n in textual form on a single line.
func Format(n *Node) string {
	var sb strings.Builder
	format(&sb, n, -1, 0)
	return sb.String()
}

// FormatIndent renders n in textual form, one child per line for nodes
// that do not fit comfortably on one line.
func FormatIndent(n *Node) string {
	var sb strings.Builder
	format(&sb, n, 0, 0)
	return sb.String()
}

const inlineDepth = 3

func format(sb *strings.Builder, n *Node, indent, level int) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	if n.kind == Constant || n.kind == ArrayLiteral {
		formatConstant(sb, n.value)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.kind.String())
	if n.value != nil {
		sb.WriteByte(' ')
		formatConstant(sb, n.value)
	}
	multiline := indent >= 0 && n.Depth() > inlineDepth
	for _, c := range n.children {
		if multiline {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat("  ", level+1))
			format(sb, c, indent, level+1)
		} else {
			sb.WriteByte(' ')
			format(sb, c, -1, 0)
		}
	}
	sb.WriteByte(')')
}

func formatConstant(sb *strings.Builder, c domain.Constant) {
	a, ok := c.(*domain.Array)
	if !ok {
		sb.WriteString(c.String())
		return
	}
	if domain.InferArrayType(a.Values) != a.Type() {
		sb.WriteString(a.Type().String())
	}
	sb.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		formatConstant(sb, v)
	}
	sb.WriteByte(']')
}
