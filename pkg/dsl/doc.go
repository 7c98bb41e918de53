/*
Package dsl is the construction API for programs produced by trainers.

Trees are built depth-first with a stack of insertion points: Begin opens an
interior node, leaf helpers attach to the innermost open node and End closes
it, validating its child count against the kind's arity. Leaving a node open
or closing it with the wrong number of children panics with an
*ast.ContractError.

Example usage:

	b := dsl.New()
	b.If().
		Op(ast.Gt).
		Op(ast.Add).
		Op(ast.Mul).Param(0).Float(0.9).End().
		Op(ast.Mul).Param(1).Float(-0.2).End().
		End().
		Float(0).
		End().
		Category(1).
		Category(2).
		End()

	m := b.Model("linear", domain.NewSignature(
		[]domain.InputType{domain.InputContinuous, domain.InputContinuous}, nil))
*/
package dsl
