/*
Package transform holds the rewrites run on a copy of a tree right before
code generation. The stored and evaluated tree keeps its compact shape.

Precedence, loosest first:

	ternary if < or < and < not < comparisons, in < add, sub < mul, div
	< neg (and negative literals) < sqr < everything else
*/
package transform
