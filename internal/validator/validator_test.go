package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/memory"
)

const validDef = `name: linear
inputs:
  - {name: x, type: continuous}
code: (if (gt (param 0) 0.5) #1 #0)
`

// Reads local 0 before anything assigns it.
const unassignedDef = `name: broken
inputs:
  - {name: x, type: continuous}
code: (add (getlocal 0) (param 0))
`

func newEngine(t *testing.T, defs map[string]string) *arbor.Engine {
	t.Helper()
	eng, err := arbor.New("", arbor.WithLoader(memory.NewLoader(defs)))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return eng
}

func TestValidateModels(t *testing.T) {
	ctx := context.Background()

	// 1. Scenario A: every model is valid
	eng := newEngine(t, map[string]string{"linear": validDef})
	results, err := ValidateModels(ctx, eng, nil, WithSyntaxCheck(true))
	if err != nil {
		t.Fatalf("Scenario A (Valid) failed: %v", err)
	}
	if len(results) != 1 || !results[0].OK() {
		t.Errorf("Scenario A: expected one passing result, got %+v", results)
	}

	// 2. Scenario B: one model reads an unassigned local
	eng = newEngine(t, map[string]string{"linear": validDef, "broken": unassignedDef})
	results, err = ValidateModels(ctx, eng, nil)
	if err == nil {
		t.Fatal("Scenario B: expected an error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("Scenario B: error should name the model, got %v", err)
	}
	for _, r := range results {
		if r.Model == "linear" && !r.OK() {
			t.Errorf("Scenario B: linear should pass, got %v", r.Problems)
		}
		if r.Model == "broken" && r.OK() {
			t.Error("Scenario B: broken should fail")
		}
	}

	// 3. Scenario C: a named model that does not exist
	results, err = ValidateModels(ctx, eng, []string{"ghost"}, WithLanguages("python"))
	if err == nil || len(results) != 1 || results[0].OK() {
		t.Errorf("Scenario C: expected a load failure, got %+v (%v)", results, err)
	}
}
