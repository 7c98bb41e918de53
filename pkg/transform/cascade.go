package transform

import "github.com/aretw0/arbor/pkg/ast"

// CascadeReturns wraps every value-producing node in tail position in a
// return: the last statement of a block and both arms of an if are followed
// down, side-effect kinds stay bare and existing returns are left alone, so
// the pass is idempotent. It rewrites the tree in place and returns the root,
// which is a new return node when the root itself was wrapped.
func CascadeReturns(root *ast.Node) *ast.Node {
	return cascade(root)
}

func cascade(n *ast.Node) *ast.Node {
	switch n.Kind() {
	case ast.Block:
		cascade(n.Child(n.Len() - 1))
		return n
	case ast.If:
		cascade(n.Child(1))
		cascade(n.Child(2))
		return n
	case ast.Return:
		return n
	}
	if n.IsSideEffect() {
		return n
	}
	return n.Wrap(ast.Return)
}
