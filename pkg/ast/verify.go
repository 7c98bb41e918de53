package ast

import (
	"fmt"
	"maps"
)

// LocalError reports a local read that is not preceded by an assignment on
// every path reaching it.
type LocalError struct {
	Kind Kind
	Slot int
	Path string
}

func (e *LocalError) Error() string {
	return fmt.Sprintf("%s reads local %d before it is assigned (at %s)", e.Kind, e.Slot, e.Path)
}

type assigned map[int]struct{}

func (a assigned) has(slot int) bool {
	_, ok := a[slot]
	return ok
}

func intersect(a, b assigned) assigned {
	out := assigned{}
	for k := range a {
		if b.has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// VerifyLocals checks that every getlocal, inclocal and array_at_pos_inc is
// dominated by an assignment of its slot: a setlocal earlier in evaluation
// order, or the for_local binding the slot. Both arms of an if must assign a
// slot for it to count as assigned after the if; a for_local with a zero
// trip count assigns nothing.
func VerifyLocals(root *Node) error {
	_, err := verifyLocals(root, assigned{}, "root")
	return err
}

func verifyLocals(n *Node, in assigned, path string) (assigned, error) {
	switch n.kind {
	case GetLocal, IncLocal:
		if !in.has(n.Slot()) {
			return nil, &LocalError{Kind: n.kind, Slot: n.Slot(), Path: path}
		}
		return in, nil

	case SetLocal:
		out, err := verifyLocals(n.children[1], in, path+"/1")
		if err != nil {
			return nil, err
		}
		out = maps.Clone(out)
		out[n.children[0].Slot()] = struct{}{}
		return out, nil

	case ArrayAtPosInc:
		slot := n.children[0].Slot()
		if !in.has(slot) {
			return nil, &LocalError{Kind: n.kind, Slot: slot, Path: path}
		}
		return verifyLocals(n.children[1], in, path+"/1")

	case If:
		afterCond, err := verifyLocals(n.children[0], in, path+"/0")
		if err != nil {
			return nil, err
		}
		thenOut, err := verifyLocals(n.children[1], afterCond, path+"/1")
		if err != nil {
			return nil, err
		}
		elseOut, err := verifyLocals(n.children[2], afterCond, path+"/2")
		if err != nil {
			return nil, err
		}
		return intersect(thenOut, elseOut), nil

	case ForLocal:
		body := maps.Clone(in)
		body[n.children[0].Slot()] = struct{}{}
		out, err := verifyLocals(n.children[2], body, path+"/2")
		if err != nil {
			return nil, err
		}
		if n.children[1].Slot() == 0 {
			return in, nil
		}
		return out, nil
	}

	out := in
	for i, c := range n.children {
		var err error
		if out, err = verifyLocals(c, out, fmt.Sprintf("%s/%d", path, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
