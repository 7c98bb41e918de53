package codec

import (
	"io"

	"github.com/aretw0/arbor/pkg/ast"
)

// MaxChildren bounds the child count of a decoded variable-arity node.
const MaxChildren = 1 << 16

// EncodeNode writes a tree in pre-order: the opcode byte, then the embedded
// constant of a leaf, or the child count (variable arity only) followed by
// the children.
func EncodeNode(w io.Writer, n *ast.Node, opts ...Option) error {
	return encodeTo(w, opts, func(e *encoder) error { return e.node(n) })
}

// DecodeNode reads one tree. On failure it returns a *DecodeError and no
// tree.
func DecodeNode(r io.Reader) (*ast.Node, error) {
	return newDecoder(r).node()
}

func (e *encoder) node(n *ast.Node) error {
	info := n.Info()
	if err := e.byte(info.Opcode); err != nil {
		return err
	}
	if info.Has(ast.HasEmbeddedValue) {
		return e.constant(n.Value())
	}
	if !info.FixedArity() {
		if err := e.uvarint(uint64(n.Len())); err != nil {
			return err
		}
	}
	for _, c := range n.Children() {
		if err := e.node(c); err != nil {
			return err
		}
	}
	return nil
}

type pending struct {
	kind     ast.Kind
	want     int
	children []*ast.Node
}

// node decodes with an explicit stack so deep trees do not grow the call
// stack.
func (d *decoder) node() (*ast.Node, error) {
	var stack []*pending
	for {
		op, err := d.byte()
		if err != nil {
			return nil, err
		}
		kind, ok := ast.KindByOpcode(op)
		if !ok {
			return nil, d.failf(ErrUnknownOpcode, "0x%02x", op)
		}
		info := kind.Info()

		var done *ast.Node
		switch {
		case info.Has(ast.HasEmbeddedValue):
			c, err := d.constant(0)
			if err != nil {
				return nil, err
			}
			if done, err = ast.BuildLeaf(kind, c); err != nil {
				return nil, d.failf(ErrMalformedConstant, "%v", err)
			}
		default:
			want := info.MinArgs
			if !info.FixedArity() {
				count, err := d.uvarint()
				if err != nil {
					return nil, err
				}
				if count > MaxChildren || int(count) < info.MinArgs || int(count) > info.MaxArgs {
					return nil, d.failf(ErrMalformedNode, "%s with %d children", kind, count)
				}
				want = int(count)
			}
			if want > 0 {
				stack = append(stack, &pending{kind: kind, want: want, children: make([]*ast.Node, 0, want)})
				continue
			}
			if done, err = ast.Build(kind); err != nil {
				return nil, d.failf(ErrMalformedNode, "%v", err)
			}
		}

		// Attach the finished node, closing every parent it completes.
		for {
			if len(stack) == 0 {
				return done, nil
			}
			top := stack[len(stack)-1]
			top.children = append(top.children, done)
			if len(top.children) < top.want {
				break
			}
			stack = stack[:len(stack)-1]
			if done, err = ast.Build(top.kind, top.children...); err != nil {
				return nil, d.failf(ErrMalformedNode, "%v", err)
			}
		}
	}
}
