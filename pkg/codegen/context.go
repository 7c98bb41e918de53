package codegen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/model"
)

// Severity grades a diagnostic.
type Severity int

const (
	// Warning diagnostics do not stop generation.
	Warning Severity = iota
	// Error diagnostics make Generate fail.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one message produced while generating.
type Diagnostic struct {
	Severity Severity
	Kind     ast.Kind
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Kind, d.Message)
}

// Diagnostics collects messages in emission order.
type Diagnostics []Diagnostic

// Err joins the error diagnostics, nil when there are none.
func (ds Diagnostics) Err() error {
	var errs []error
	for _, d := range ds {
		if d.Severity == Error {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnsupported, d))
		}
	}
	return errors.Join(errs...)
}

// Context carries the state of one generation run.
type Context struct {
	Model *model.Model
	// Root is the prepared copy of the model's tree being written.
	Root        *ast.Node
	Out         *Emitter
	Diagnostics Diagnostics

	backend Backend
	syntax  Syntax
	table   map[ast.Kind]WriteFunc
	params  []string
	kinds   map[ast.Kind]bool
}

func newContext(m *model.Model, root *ast.Node, b Backend) *Context {
	syntax := b.Syntax()
	ctx := &Context{
		Model:   m,
		Root:    root,
		Out:     NewEmitter(syntax.Indent),
		backend: b,
		syntax:  syntax,
		table:   b.Table(),
		kinds:   map[ast.Kind]bool{},
	}
	ast.Walk(root, func(n *ast.Node) bool {
		ctx.kinds[n.Kind()] = true
		return true
	})
	ctx.params = paramNames(m, syntax)
	return ctx
}

// Backend returns the backend being run.
func (c *Context) Backend() Backend { return c.backend }

// Uses reports whether the tree contains any of kinds.
func (c *Context) Uses(kinds ...ast.Kind) bool {
	for _, k := range kinds {
		if c.kinds[k] {
			return true
		}
	}
	return false
}

// Params returns the identifiers of the predict parameters.
func (c *Context) Params() []string { return c.params }

// Param returns the identifier of input i.
func (c *Context) Param(i int) string {
	if i < 0 || i >= len(c.params) {
		c.Errorf(ast.Param, "param %d out of range", i)
		return "p" + strconv.Itoa(i)
	}
	return c.params[i]
}

// Local returns the identifier of local slot.
func (c *Context) Local(slot int) string { return "v" + strconv.Itoa(slot) }

// Locals returns the number of local slots the tree uses.
func (c *Context) Locals() int { return c.Root.MaxLocal() + 1 }

// Warnf records a warning.
func (c *Context) Warnf(k ast.Kind, format string, args ...any) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Severity: Warning, Kind: k, Message: fmt.Sprintf(format, args...)})
}

// Errorf records an error; Generate will fail.
func (c *Context) Errorf(k ast.Kind, format string, args ...any) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Severity: Error, Kind: k, Message: fmt.Sprintf(format, args...)})
}

// InStatement reports whether n is written as a statement: its value is
// discarded by its parent.
func InStatement(n *ast.Node) bool { return !n.IsValueConsumed() }

// Expr writes n inline.
func (c *Context) Expr(n *ast.Node) {
	if n.Kind() == ast.Block || (n.IsSideEffect() && n.Kind() != ast.Nop) {
		c.Errorf(n.Kind(), "cannot be used as a value")
		return
	}
	c.dispatch(n)
}

// Stmt writes n as one or more complete lines.
func (c *Context) Stmt(n *ast.Node) {
	switch n.Kind() {
	case ast.Block, ast.Return, ast.If, ast.Nop, ast.SetLocal, ast.IncLocal, ast.ArrayAtPosInc, ast.ForLocal:
		c.dispatch(n)
		return
	}
	c.dispatch(n)
	c.Out.Write(c.syntax.Terminator)
	c.Out.Newline()
}

// Args writes nodes separated by commas.
func (c *Context) Args(nodes ...*ast.Node) {
	for i, n := range nodes {
		if i > 0 {
			c.Out.Write(", ")
		}
		c.Expr(n)
	}
}

func (c *Context) dispatch(n *ast.Node) {
	fn, ok := c.table[n.Kind()]
	if !ok {
		c.Errorf(n.Kind(), "no write function in %s backend", c.backend.Name())
		return
	}
	fn(c, n)
}

// paramNames turns signature names into unique identifiers.
func paramNames(m *model.Model, syntax Syntax) []string {
	taken := map[string]bool{"predict": true}
	for _, r := range syntax.Reserved {
		taken[r] = true
	}
	for i := 0; i < m.Code.MaxLocal()+1; i++ {
		taken["v"+strconv.Itoa(i)] = true
	}
	names := make([]string, m.Signature.Len())
	for i := range names {
		name := sanitizeIdent(m.Signature.ParamName(i))
		if syntax.LowerParams {
			name = strings.ToLower(name[:1]) + name[1:]
		}
		for taken[name] {
			name += "_"
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func sanitizeIdent(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if sb.Len() == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
