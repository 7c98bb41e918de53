package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/arbor/pkg/ast"
)

func TestCascadeReturns(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"expression root", `(add 1 2)`, `(return (add 1 2))`},
		{"if arms", `(if (param 0) #1 #2)`, `(if (param 0) (return #1) (return #2))`},
		{"block tail", `(block (setlocal 0 1) (getlocal 0))`, `(block (setlocal 0 1) (return (getlocal 0)))`},
		{"nested", `(block (nop) (if true (block (nop) 1) (if false 2 3)))`,
			`(block (nop) (if true (block (nop) (return 1)) (if false (return 2) (return 3))))`},
		{"side effects stay bare", `(block (setlocal 0 0) (inclocal 0))`, `(block (setlocal 0 0) (inclocal 0))`},
		{"loop tail", `(block (setlocal 0 0) (for_local 1 2 (inclocal 0)))`, `(block (setlocal 0 0) (for_local 1 2 (inclocal 0)))`},
		{"existing return", `(return 1)`, `(return 1)`},
		{"if inside expression", `(add (if true 1 2) 3)`, `(return (add (if true 1 2) 3))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CascadeReturns(ast.MustParse(tt.src))
			assert.Equal(t, tt.want, ast.Format(got))
			assert.Nil(t, got.Parent())
		})
	}
}

func TestCascadeReturns_Idempotent(t *testing.T) {
	sources := []string{
		`(if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)`,
		`(block (setlocal 0 (new_array 3 0)) (for_local 1 3 (array_at_pos_inc 0 (getlocal 1))) (int_to_category (array_argmax_index (getlocal 0))))`,
		`(block (nop) (if true (block (nop) 1) (if false 2 3)))`,
	}
	for _, src := range sources {
		once := CascadeReturns(ast.MustParse(src))
		twice := CascadeReturns(once.Clone())
		assert.True(t, ast.Equal(once, twice), "%s != %s", once, twice)
	}
}

func TestInsertBrackets(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"add under mul", `(mul (add (param 0) (param 1)) (param 2))`,
			`(mul (brackets (add (param 0) (param 1))) (param 2))`},
		{"mul under add", `(add (mul (param 0) (param 1)) (param 2))`,
			`(add (mul (param 0) (param 1)) (param 2))`},
		{"right of sub", `(sub 1 (sub 2 3))`, `(sub 1 (brackets (sub 2 3)))`},
		{"left of sub", `(sub (sub 1 2) 3)`, `(sub (sub 1 2) 3)`},
		{"right of div", `(div 1 (mul 2 3))`, `(div 1 (brackets (mul 2 3)))`},
		{"chained comparison", `(eq (lt 1 2) true)`, `(eq (brackets (lt 1 2)) true)`},
		{"or under and", `(and (or true false) true)`, `(and (brackets (or true false)) true)`},
		{"and under or", `(or (and true false) true)`, `(or (and true false) true)`},
		{"neg of sum", `(neg (add 1 2))`, `(neg (brackets (add 1 2)))`},
		{"neg of neg", `(neg (neg 1))`, `(neg (brackets (neg 1)))`},
		{"sqr of negative literal", `(sqr -1.5)`, `(sqr (brackets -1.5))`},
		{"negative literal operand", `(add (param 0) -0.2)`, `(add (param 0) -0.2)`},
		{"ternary operand", `(add (if true 1 2) 3)`, `(add (brackets (if true 1 2)) 3)`},
		{"nested ternary", `(add (if true (if false 1 2) 3) 4)`,
			`(add (brackets (if true (brackets (if false 1 2)) 3)) 4)`},
		{"statement if", `(block (setlocal 0 1) (if true (getlocal 0) 2))`,
			`(block (setlocal 0 1) (if true (getlocal 0) 2))`},
		{"call argument", `(sqrt (add 1 2))`, `(sqrt (add 1 2))`},
		{"indexed expression", `(array_at_pos (if true [1] [2]) 0)`,
			`(array_at_pos (brackets (if true [1] [2])) 0)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InsertBrackets(ast.MustParse(tt.src))
			assert.Equal(t, tt.want, ast.Format(got))
		})
	}
}

func TestInsertBrackets_Idempotent(t *testing.T) {
	once := InsertBrackets(ast.MustParse(`(mul (add (neg (sub 1 (sub 2 3))) (param 1)) (sqr -2.0))`))
	twice := InsertBrackets(once.Clone())
	assert.True(t, ast.Equal(once, twice))
}

func TestPrepare_LeavesInputAlone(t *testing.T) {
	src := `(mul (add (param 0) (param 1)) (param 2))`
	n := ast.MustParse(src)
	got := Prepare(n)
	assert.Equal(t, src, ast.Format(n))
	assert.Equal(t, `(return (mul (brackets (add (param 0) (param 1))) (param 2)))`, ast.Format(got))
}
