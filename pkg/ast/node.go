package ast

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// ContractError reports a builder-time violation: a wrong child count, an
// unknown kind, a misplaced value or a node attached twice.
type ContractError struct {
	Kind   Kind
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func contract(k Kind, format string, args ...any) *ContractError {
	return &ContractError{Kind: k, Reason: fmt.Sprintf(format, args...)}
}

// Node is one element of a prediction program. Interior nodes own an
// ordered list of children; leaves carry exactly one Constant. Which shape
// applies is decided by the kind's flags.
type Node struct {
	kind     Kind
	children []*Node
	value    domain.Constant
	parent   *Node
}

// Build creates an interior node (or a childless kind such as nop) after
// checking the child count and slot rules of kind. Children must not have a
// parent yet.
func Build(kind Kind, children ...*Node) (*Node, error) {
	if !kind.Valid() {
		return nil, contract(kind, "unknown kind")
	}
	info := kind.Info()
	if info.Has(HasEmbeddedValue) {
		return nil, contract(kind, "kind carries a value, use Leaf")
	}
	if n := len(children); n < info.MinArgs || n > info.MaxArgs {
		return nil, contract(kind, "got %d children, want %s", n, arity(info))
	}
	for i, c := range children {
		if c == nil {
			return nil, contract(kind, "child %d is nil", i)
		}
		if c.parent != nil {
			return nil, contract(kind, "child %d (%s) already has a parent", i, c.kind)
		}
	}
	if err := checkSlots(kind, children); err != nil {
		return nil, err
	}
	n := &Node{kind: kind, children: append([]*Node(nil), children...)}
	for _, c := range n.children {
		c.parent = n
	}
	return n, nil
}

// New is Build for trusted producers: a contract violation panics.
func New(kind Kind, children ...*Node) *Node {
	n, err := Build(kind, children...)
	if err != nil {
		panic(err)
	}
	return n
}

// BuildLeaf creates a leaf node carrying value.
func BuildLeaf(kind Kind, value domain.Constant) (*Node, error) {
	if !kind.Valid() {
		return nil, contract(kind, "unknown kind")
	}
	info := kind.Info()
	if !info.Has(HasEmbeddedValue) {
		return nil, contract(kind, "kind does not carry a value")
	}
	if value == nil {
		return nil, contract(kind, "nil value")
	}
	switch {
	case info.Has(IsArrayLiteral):
		if !value.Type().IsArray() {
			return nil, contract(kind, "expected an array, got %s", value.Type())
		}
	case kind == Constant:
		if value.Type().IsArray() {
			return nil, contract(kind, "array constants use the array kind")
		}
	default:
		i, ok := value.(domain.Int)
		if !ok || i < 0 {
			return nil, contract(kind, "expected a non-negative int index, got %s", value)
		}
	}
	return &Node{kind: kind, value: value}, nil
}

// Leaf is BuildLeaf for trusted producers: a contract violation panics.
func Leaf(kind Kind, value domain.Constant) *Node {
	n, err := BuildLeaf(kind, value)
	if err != nil {
		panic(err)
	}
	return n
}

// checkSlots enforces the constant-operand rules of kinds whose first
// operands name a local slot or a static count.
func checkSlots(kind Kind, children []*Node) error {
	switch kind {
	case SetLocal, ArrayAtPosInc:
		if !isIntConstant(children[0]) {
			return contract(kind, "first child must be a constant int slot")
		}
	case ForLocal:
		if !isIntConstant(children[0]) || !isIntConstant(children[1]) {
			return contract(kind, "slot and trip count must be constant ints")
		}
	case NewArray:
		if !isIntConstant(children[0]) {
			return contract(kind, "size must be a constant int")
		}
	}
	return nil
}

func isIntConstant(n *Node) bool {
	if n.kind != Constant {
		return false
	}
	i, ok := n.value.(domain.Int)
	return ok && i >= 0
}

func arity(info KindInfo) string {
	switch {
	case info.FixedArity():
		return fmt.Sprintf("exactly %d", info.MinArgs)
	case info.MaxArgs == Unbounded:
		return fmt.Sprintf("at least %d", info.MinArgs)
	default:
		return fmt.Sprintf("%d..%d", info.MinArgs, info.MaxArgs)
	}
}

// Convenience constructors for the leaf kinds.

// Float creates a float constant leaf.
func Float(f float32) *Node { return Leaf(Constant, domain.Float(f)) }

// Int creates an int constant leaf.
func Int(i int32) *Node { return Leaf(Constant, domain.Int(i)) }

// Category creates a category constant leaf.
func Category(c int32) *Node { return Leaf(Constant, domain.Category(c)) }

// Bool creates a bool constant leaf.
func Bool(b bool) *Node { return Leaf(Constant, domain.Bool(b)) }

// String creates a string constant leaf.
func String(s string) *Node { return Leaf(Constant, domain.String(s)) }

// Missing creates a missing constant leaf.
func Missing() *Node { return Leaf(Constant, domain.Missing{}) }

// Array creates an array literal leaf.
func Array(a *domain.Array) *Node { return Leaf(ArrayLiteral, a) }

// ParamRef creates a param leaf reading input i.
func ParamRef(i int) *Node { return Leaf(Param, domain.Int(i)) }

// Get creates a getlocal leaf for slot.
func Get(slot int) *Node { return Leaf(GetLocal, domain.Int(slot)) }

// Inc creates an inclocal leaf for slot.
func Inc(slot int) *Node { return Leaf(IncLocal, domain.Int(slot)) }

// Set creates a setlocal node assigning value to slot.
func Set(slot int, value *Node) *Node { return New(SetLocal, Int(int32(slot)), value) }

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Info returns the registry entry of the node kind.
func (n *Node) Info() KindInfo { return n.kind.Info() }

// Value returns the embedded constant of a leaf, nil for interior nodes.
func (n *Node) Value() domain.Constant { return n.value }

// Parent returns the owning node, nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Child returns child i.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns the children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Index returns the position of n in its parent, or -1 for a root.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Slot returns the int value of a leaf or constant child used as an index.
func (n *Node) Slot() int {
	return int(domain.AsInt(n.value))
}

// AppendChild attaches c as the last child, keeping the arity bound.
func (n *Node) AppendChild(c *Node) {
	info := n.Info()
	if !info.Has(HasChildren) {
		panic(contract(n.kind, "cannot append to a leaf"))
	}
	if len(n.children) >= info.MaxArgs {
		panic(contract(n.kind, "too many children, want %s", arity(info)))
	}
	if c.parent != nil {
		panic(contract(n.kind, "appended %s already has a parent", c.kind))
	}
	c.parent = n
	n.children = append(n.children, c)
}

// ReplaceChild puts c into slot i and returns the detached previous child.
func (n *Node) ReplaceChild(i int, c *Node) *Node {
	if c.parent != nil {
		panic(contract(n.kind, "replacement %s already has a parent", c.kind))
	}
	old := n.children[i]
	old.parent = nil
	c.parent = n
	n.children[i] = c
	return old
}

// Wrap splices a new node of kind between n and its parent: n becomes the
// only child of the wrapper and the wrapper takes n's slot. The wrapper is
// returned; when n was a root the wrapper is the new root.
func (n *Node) Wrap(kind Kind) *Node {
	parent, idx := n.parent, n.Index()
	if parent != nil {
		parent.children[idx] = nil
		n.parent = nil
	}
	w := New(kind, n)
	if parent != nil {
		w.parent = parent
		parent.children[idx] = w
	}
	return w
}

// Detach removes n from its parent's bookkeeping so it can be used as a
// root. The parent's slot is left nil and must be refilled.
func (n *Node) Detach() *Node {
	if n.parent != nil {
		n.parent.children[n.Index()] = nil
		n.parent = nil
	}
	return n
}

// Clone returns a deep copy of the subtree rooted at n. Embedded arrays are
// copied as well.
func (n *Node) Clone() *Node {
	c := &Node{kind: n.kind}
	if n.value != nil {
		c.value = domain.CloneConstant(n.value)
	}
	if len(n.children) > 0 {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			cc := child.Clone()
			cc.parent = c
			c.children[i] = cc
		}
	}
	return c
}

// Equal reports whether two trees have the same shape, kinds and values.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || len(a.children) != len(b.children) {
		return false
	}
	if (a.value == nil) != (b.value == nil) {
		return false
	}
	if a.value != nil && !domain.Equal(a.value, b.value) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

func (n *Node) String() string { return Format(n) }
