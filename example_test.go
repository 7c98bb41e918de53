package arbor_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
)

// ExampleNew_memory demonstrates how to use the Engine with an in-memory
// model definition, without a Loam repository on disk.
func ExampleNew_memory() {
	// 1. Define the model in its YAML form
	loader := memory.NewLoader(map[string]string{
		"linear": `inputs:
  - {name: x, type: continuous}
  - {name: y, type: continuous}
code: (if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)
`,
	})

	// 2. Initialize the Engine with the custom loader
	// Note: We leave path empty ("") because we are providing a loader.
	engine, err := arbor.New("", arbor.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	// 3. Evaluate
	ctx := context.Background()
	for _, row := range []domain.Row{
		{domain.Continuous(1), domain.Continuous(1)},
		{domain.Continuous(0), domain.Continuous(1)},
	} {
		v, err := engine.Predict(ctx, "linear", row)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(v)
	}

	// Output:
	// #1
	// #2
}

// ExampleNew_library demonstrates building a model in Go with the dsl
// package and evaluating a batch of rows.
func ExampleNew_library() {
	// 1. Build the tree
	b := dsl.New()
	b.Op(ast.Mul).Param(0).Float(2).End()

	sig := domain.NewSignature([]domain.InputType{domain.InputContinuous}, []string{"x"})
	loader, err := memory.NewFromModels(b.Model("double", sig))
	if err != nil {
		log.Fatal(err)
	}

	// 2. Initialize the Engine with concurrent batch workers
	eng, err := arbor.New("", arbor.WithLoader(loader), arbor.WithBatchWorkers(2))
	if err != nil {
		log.Fatal(err)
	}

	// 3. Predict a batch; results keep the order of the rows
	out, err := eng.PredictBatch(context.Background(), "double", []domain.Row{
		{domain.Continuous(1.5)},
		{domain.Continuous(-2)},
		{domain.Continuous(0.25)},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)

	// Output:
	// [3 -4 0.5]
}
