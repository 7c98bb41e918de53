package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/ast"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
	}{
		{
			name: "Root And Branch Shapes",
			src:  `(if (gt (param 0) 0.5) #1 #2)`,
			contains: []string{
				`n0(("if"))`,
				`n1["gt"]`,
				`n2(["param 0"])`,
				`n3(["0.5"])`,
				`n0 -- "cond" --> n1`,
				`n0 -- "then" --> n4`,
				`n0 -- "else" --> n5`,
				`n1 --> n2`,
			},
		},
		{
			name: "Nested If Is A Rhombus",
			src:  `(neg (if true 1 2))`,
			contains: []string{
				`n1{"if"}`,
			},
		},
		{
			name: "Side Effects And Loops",
			src:  `(block (setlocal 0 (new_array 2 0)) (for_local 1 2 (array_at_pos_inc 0 (getlocal 1))) (getlocal 0))`,
			contains: []string{
				`[["setlocal"]]`,
				`[["for_local"]]`,
				`-- "body" -->`,
				`(["getlocal 1"])`,
			},
		},
		{
			name: "Quote Escaping",
			src:  `(eq (param 0) "a\"b")`,
			contains: []string{
				`#quot;a\#quot;b#quot;`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(ast.MustParse(tt.src), nil)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("missing header:\n%v", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	root := ast.MustParse(`(if true #1 #2)`)
	overlay := &graph.GraphOverlay{
		Visited: []*ast.Node{root, root.Child(0), root.Child(1), root.Child(1)},
		Result:  "#1",
	}

	got := graph.GenerateMermaid(root, overlay)
	for _, want := range []string{"class n0 visited;", "class n2 visited;", `<br/> = #1`} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
		}
	}
	if strings.Count(got, "class n2 visited;") != 1 {
		t.Error("visited nodes should be styled once")
	}
	if strings.Contains(got, "class n3 visited;") {
		t.Error("else arm was not visited")
	}
}
