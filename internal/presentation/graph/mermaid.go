package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/ast"
)

// GraphOverlay contains evaluation data to visualize on the graph.
type GraphOverlay struct {
	// Visited holds the nodes an evaluation went through, e.g. from eval.Trace.
	Visited []*ast.Node
	// Result labels the root with the prediction.
	Result string
}

// GenerateMermaid produces a Mermaid flowchart of a program tree.
// It applies semantic styling:
// - Root: ((Circle))
// - If: {Rhombus}
// - Leaf (constant, param, local, array): ([Stadium])
// - Side effect: [[Subroutine]]
// - Default: [Rectangle]
// Edges out of if and for_local carry the role of the child.
// It also applies overlay styles (Visited) if provided.
func GenerateMermaid(root *ast.Node, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[*ast.Node]string)
	ast.Walk(root, func(n *ast.Node) bool {
		id := fmt.Sprintf("n%d", len(ids))
		ids[n] = id

		label := nodeLabel(n)
		if n == root && overlay != nil && overlay.Result != "" {
			label += " <br/> = " + overlay.Result
		}

		opener, closer := "[", "]"
		switch {
		case n == root:
			opener, closer = "((", "))"
		case n.Kind() == ast.If:
			opener, closer = "{", "}"
		case n.Len() == 0 && !n.IsSideEffect():
			opener, closer = "([", "])"
		case n.IsSideEffect():
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(label), closer)

		if parent := n.Parent(); parent != nil && n != root {
			if role := edgeRole(parent.Kind(), n.Index()); role != "" {
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", ids[parent], role, id)
			} else {
				fmt.Fprintf(&sb, "    %s --> %s\n", ids[parent], id)
			}
		}
		return true
	})

	if overlay != nil && len(overlay.Visited) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		styled := make(map[string]bool)
		for _, n := range overlay.Visited {
			id, ok := ids[n]
			if ok && !styled[id] {
				styled[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}
	}

	return sb.String()
}

func nodeLabel(n *ast.Node) string {
	switch n.Kind() {
	case ast.Constant, ast.ArrayLiteral:
		return n.Value().String()
	case ast.Param, ast.GetLocal, ast.IncLocal:
		return fmt.Sprintf("%s %d", n.Kind(), n.Slot())
	}
	return n.Kind().String()
}

func edgeRole(parent ast.Kind, i int) string {
	switch parent {
	case ast.If:
		return [...]string{"cond", "then", "else"}[i]
	case ast.ForLocal:
		return [...]string{"slot", "count", "body"}[i]
	case ast.SetLocal, ast.ArrayAtPosInc:
		if i == 0 {
			return "slot"
		}
	}
	return ""
}

// escape makes a label safe inside a quoted Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
