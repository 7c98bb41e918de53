package codegen

import (
	"fmt"
	"strings"
)

// Emitter buffers generated text and re-applies the current indent at the
// start of every line, so nested Indent/Dedent scopes compose.
type Emitter struct {
	sb        strings.Builder
	unit      string
	level     int
	lineStart bool
}

// NewEmitter creates an emitter indenting with unit per level.
func NewEmitter(unit string) *Emitter {
	return &Emitter{unit: unit, lineStart: true}
}

// Indent opens a nested scope.
func (e *Emitter) Indent() { e.level++ }

// Dedent closes a nested scope.
func (e *Emitter) Dedent() {
	if e.level > 0 {
		e.level--
	}
}

// Write appends s. Embedded newlines start new indented lines.
func (e *Emitter) Write(s string) {
	for s != "" {
		i := strings.IndexByte(s, '\n')
		line := s
		if i >= 0 {
			line = s[:i]
		}
		if line != "" {
			if e.lineStart {
				e.sb.WriteString(strings.Repeat(e.unit, e.level))
				e.lineStart = false
			}
			e.sb.WriteString(line)
		}
		if i < 0 {
			return
		}
		e.sb.WriteByte('\n')
		e.lineStart = true
		s = s[i+1:]
	}
}

// Printf appends formatted text.
func (e *Emitter) Printf(format string, args ...any) {
	e.Write(fmt.Sprintf(format, args...))
}

// Line writes s and ends the line.
func (e *Emitter) Line(s string) {
	e.Write(s)
	e.Newline()
}

// Newline ends the current line.
func (e *Emitter) Newline() { e.Write("\n") }

// String returns everything written so far.
func (e *Emitter) String() string { return e.sb.String() }
