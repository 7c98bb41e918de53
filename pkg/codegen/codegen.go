package codegen

import (
	"errors"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/transform"
)

// DefaultLanguage is used for empty or unknown language ids.
const DefaultLanguage = "python"

// ErrUnsupported is returned when a tree uses a construct a backend cannot
// express; the diagnostics name the node.
var ErrUnsupported = errors.New("construct not supported by backend")

// WriteFunc writes one node. Nodes in statement position write whole lines;
// nodes in expression position write inline text.
type WriteFunc func(ctx *Context, n *ast.Node)

// Syntax holds the lexical settings of a target language.
type Syntax struct {
	// Indent is one indentation level.
	Indent string
	// Terminator ends an expression statement.
	Terminator string
	// Reserved lists identifiers params must not be named after.
	Reserved []string
	// LowerParams lowercases the first letter of parameter names.
	LowerParams bool
}

// Backend lowers trees into one target language. Table must hold a write
// function for every registered kind.
type Backend interface {
	Name() string
	Syntax() Syntax
	WriteHeader(ctx *Context)
	WriteFooter(ctx *Context)
	Table() map[ast.Kind]WriteFunc
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

// Register makes b available under ids.
func Register(b Backend, ids ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		backends[id] = b
	}
}

// Lookup returns the backend for id, falling back to DefaultLanguage.
func Lookup(id string) Backend {
	mu.RLock()
	defer mu.RUnlock()
	if b, ok := backends[id]; ok {
		return b
	}
	return backends[DefaultLanguage]
}

// Known reports whether id names a registered backend.
func Known(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := backends[id]
	return ok
}

// Languages returns every registered id in sorted order.
func Languages() []string {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]string, 0, len(backends))
	for id := range backends {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Generate lowers m into a standalone predict function. The model's tree is
// copied, cascaded and bracketed first; m is not modified.
func Generate(m *model.Model, lang string) (string, Diagnostics, error) {
	b := Lookup(lang)
	ctx := newContext(m, transform.Prepare(m.Code), b)

	b.WriteHeader(ctx)
	ctx.Stmt(ctx.Root)
	b.WriteFooter(ctx)

	if err := ctx.Diagnostics.Err(); err != nil {
		return "", ctx.Diagnostics, err
	}
	return ctx.Out.String(), ctx.Diagnostics, nil
}

// MissingKinds returns the registered kinds b has no write function for.
func MissingKinds(b Backend) []ast.Kind {
	table := b.Table()
	var missing []ast.Kind
	for _, k := range ast.Kinds() {
		if _, ok := table[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
