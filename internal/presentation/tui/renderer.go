package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return "", err
		}
		return r.Render(markdown)
	}
}

// fences maps generator language ids to markdown fence tags glamour highlights.
var fences = map[string]string{
	"c++": "cpp",
	"js":  "javascript",
	"rb":  "ruby",
}

// CodeBlock wraps generated source in a fenced markdown block.
func CodeBlock(lang, src string) string {
	tag := lang
	if f, ok := fences[lang]; ok {
		tag = f
	}
	fence := "```"
	for strings.Contains(src, fence) {
		fence += "`"
	}
	return fmt.Sprintf("%s%s\n%s\n%s\n", fence, tag, strings.TrimRight(src, "\n"), fence)
}

// RenderCode highlights generated source for a terminal.
func RenderCode(lang, src string) (string, error) {
	return NewRenderer()(CodeBlock(lang, src))
}
