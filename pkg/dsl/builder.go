package dsl

import (
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

type frame struct {
	kind     ast.Kind
	children []*ast.Node
}

// Builder constructs a tree depth-first. Begin opens an interior node and
// makes it the insertion point, End closes it, and leaf calls attach to the
// current insertion point. Construction errors panic with
// *ast.ContractError: they are bugs in the producer, not bad input.
type Builder struct {
	stack []*frame
	root  *ast.Node
}

// New creates an empty builder.
func New() *Builder {
	return &Builder{}
}

// Begin opens a node of kind. Its children are the nodes attached until the
// matching End.
func (b *Builder) Begin(kind ast.Kind) *Builder {
	info := kind.Info()
	if !kind.Valid() || info.Has(ast.HasEmbeddedValue) {
		panic(&ast.ContractError{Kind: kind, Reason: "cannot open a leaf or unknown kind"})
	}
	b.stack = append(b.stack, &frame{kind: kind})
	return b
}

// End closes the innermost open node, checking its child count.
func (b *Builder) End() *Builder {
	if len(b.stack) == 0 {
		panic(&ast.ContractError{Reason: "End without a matching Begin"})
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return b.attach(ast.New(top.kind, top.children...))
}

// Node attaches a prebuilt subtree at the insertion point.
func (b *Builder) Node(n *ast.Node) *Builder {
	return b.attach(n)
}

// Leaf attaches a leaf of kind carrying value.
func (b *Builder) Leaf(kind ast.Kind, value domain.Constant) *Builder {
	return b.attach(ast.Leaf(kind, value))
}

func (b *Builder) attach(n *ast.Node) *Builder {
	if len(b.stack) == 0 {
		if b.root != nil {
			panic(&ast.ContractError{Kind: n.Kind(), Reason: "tree already has a root"})
		}
		b.root = n
		return b
	}
	top := b.stack[len(b.stack)-1]
	if info := top.kind.Info(); len(top.children) >= info.MaxArgs {
		panic(&ast.ContractError{Kind: top.kind, Reason: "too many children"})
	}
	top.children = append(top.children, n)
	return b
}

// Depth returns the number of open nodes.
func (b *Builder) Depth() int { return len(b.stack) }

// Root returns the finished tree. It panics when nodes are still open or
// nothing was built.
func (b *Builder) Root() *ast.Node {
	if len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		panic(&ast.ContractError{Kind: top.kind, Reason: "node left unclosed"})
	}
	if b.root == nil {
		panic(&ast.ContractError{Reason: "empty tree"})
	}
	return b.root
}

// Model wraps the finished tree into a model.
func (b *Builder) Model(name string, sig domain.Signature) *model.Model {
	return model.New(name, sig, b.Root())
}
