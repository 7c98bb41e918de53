/*
Package arbor evaluates, serializes and compiles prediction programs.

A model is a small expression tree (constants, input parameters, arithmetic,
comparisons, conditionals, loops over local slots, arrays) produced by a
trainer such as a decision tree or a nearest-neighbour vote. The same tree is
evaluated directly on input rows, written to a compact binary stream, and
turned into a standalone predict function in Python, C, JavaScript or Ruby.

# Concept

The Engine resolves models by name through a ports.ModelLoader. By default
it reads YAML model definitions from a Loam repository; any store in
pkg/adapters (memory, file, Redis, Badger) can be injected instead. Outer
surfaces (the CLI, the HTTP API and the MCP server) share the Engine.

# Usage

	eng, err := arbor.New("./models")
	if err != nil {
		log.Fatal(err)
	}

	row := domain.Row{domain.Continuous(1.2), domain.Continuous(0.4)}
	v, err := eng.Predict(ctx, "linear", row)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(v) // #1

	src, _, err := eng.Generate(ctx, "linear", "python")

Models are built in code with pkg/dsl, or written by hand in the textual
form accepted by ast.Parse:

	(if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)
*/
package arbor
