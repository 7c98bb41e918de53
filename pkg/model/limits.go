package model

import (
	"errors"
	"fmt"

	"github.com/aretw0/arbor/pkg/ast"
)

// Resource bounds a model must respect to be evaluated or compiled. Locals
// and arrays are allocated up front from the constants in the tree, so a few
// bytes of wire data could otherwise claim gigabytes.
const (
	// MaxLocals bounds the number of local slots.
	MaxLocals = 1 << 16
	// MaxArraySize bounds the size of a single new_array.
	MaxArraySize = 1 << 20
	// MaxWork bounds the loop iterations plus array elements allocated by one
	// evaluation, counting nested loops multiplicatively.
	MaxWork = 1 << 26
)

// ErrTooLarge is returned by Validate for models over a resource bound.
var ErrTooLarge = errors.New("model exceeds resource limits")

func checkLimits(root *ast.Node) error {
	if n := root.MaxLocal() + 1; n > MaxLocals {
		return fmt.Errorf("%w: %d local slots, at most %d", ErrTooLarge, n, MaxLocals)
	}
	var work int64
	return limitWork(root, 1, &work)
}

// limitWork adds to work the cost of evaluating n once per enclosing
// iteration (mult).
func limitWork(n *ast.Node, mult int64, work *int64) error {
	switch n.Kind() {
	case ast.NewArray:
		size := int64(n.Child(0).Slot())
		if size > MaxArraySize {
			return fmt.Errorf("%w: new_array of %d elements, at most %d", ErrTooLarge, size, MaxArraySize)
		}
		*work += mult * size
	case ast.ForLocal:
		count := int64(n.Child(1).Slot())
		if count > MaxWork {
			return fmt.Errorf("%w: for_local of %d iterations", ErrTooLarge, count)
		}
		*work += mult * count
		if *work > MaxWork {
			return fmt.Errorf("%w: more than %d iterations", ErrTooLarge, MaxWork)
		}
		return limitWork(n.Child(2), mult*count, work)
	}
	if *work > MaxWork {
		return fmt.Errorf("%w: more than %d iterations and elements", ErrTooLarge, MaxWork)
	}
	for _, c := range n.Children() {
		if err := limitWork(c, mult, work); err != nil {
			return err
		}
	}
	return nil
}
