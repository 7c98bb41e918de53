/*
Package codegen lowers a model tree into a standalone predict function in
another language.

Each target is a Backend: lexical settings, a header and footer, and a table
mapping every node kind to a WriteFunc. Generate copies the tree, wraps tail
values in returns and inserts brackets before dispatching, so write functions
only decide spelling.

	src, diags, err := codegen.Generate(m, "c")

Registered ids: python (the default), c and c++, javascript and js, ruby and
rb. Unknown ids fall back to python.
*/
package codegen
