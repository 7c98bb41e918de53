// Package syntax checks generated source with tree-sitter grammars.
package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/aretw0/arbor/pkg/codegen"
)

// maxErrors bounds the report on heavily malformed input.
const maxErrors = 50

// Error is one ERROR or MISSING node found by the parser.
type Error struct {
	Line    int // 1-based
	Column  int // 0-based
	Message string
}

func (e Error) String() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Errors is the result of a failed check.
type Errors []Error

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.String()
	}
	return fmt.Sprintf("%d syntax error(s): %s", len(es), strings.Join(msgs, "; "))
}

// Grammar returns the tree-sitter grammar for a code generator language id,
// resolving aliases the same way the generator does.
func Grammar(lang string) *sitter.Language {
	switch codegen.Lookup(lang).Name() {
	case "python":
		return python.GetLanguage()
	case "c":
		if lang == "c++" {
			return cpp.GetLanguage()
		}
		return c.GetLanguage()
	case "javascript":
		return javascript.GetLanguage()
	case "ruby":
		return ruby.GetLanguage()
	}
	return nil
}

// Check parses src as lang. It returns Errors when the tree has ERROR or
// MISSING nodes, and a plain error when parsing itself fails.
func Check(ctx context.Context, lang, src string) error {
	grammar := Grammar(lang)
	if grammar == nil {
		return fmt.Errorf("no grammar for language %q", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	content := []byte(src)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	defer tree.Close()

	var errs Errors
	collect(tree.RootNode(), content, &errs, 0)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func collect(node *sitter.Node, content []byte, errs *Errors, depth int) {
	if depth > 1000 || len(*errs) >= maxErrors {
		return
	}

	if node.IsError() || node.IsMissing() {
		p := node.StartPoint()
		msg := "syntax error"
		if node.IsMissing() {
			msg = "missing " + node.Type()
		} else if start, end := node.StartByte(), min(node.EndByte(), uint32(len(content))); end > start && end-start < 60 {
			msg = fmt.Sprintf("unexpected %q", content[start:end])
		}
		*errs = append(*errs, Error{Line: int(p.Row) + 1, Column: int(p.Column), Message: msg})
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collect(node.Child(i), content, errs, depth+1)
	}
}
