// Package diag carries assembler diagnostics as values instead of printing
// them from inside the parsing/resolution stages, so tests can assert on
// the diagnostic set directly and the CLI stays the only place that
// renders them.
package diag

import "fmt"

// Diagnostic is one reported problem: a file, an optional source line, and
// a human-readable message.
type Diagnostic struct {
	File    string
	Line    int // 0 if not applicable to a specific line
	Message string
}

// String renders a diagnostic the way spec.md §7.3 requires: file name,
// line number where applicable, and a short cause phrase.
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.File, d.Message)
}

// Bag collects diagnostics for one file's processing, in the order they
// were reported (source-line order, per spec.md §5).
type Bag struct {
	File  string
	items []Diagnostic
}

// NewBag returns an empty bag scoped to file.
func NewBag(file string) *Bag {
	return &Bag{File: file}
}

// Add appends a diagnostic at the given line (0 for file-level).
func (b *Bag) Add(line int, format string, args ...any) {
	b.items = append(b.items, Diagnostic{File: b.File, Line: line, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic has been recorded.
func (b *Bag) HasErrors() bool {
	return len(b.items) > 0
}

// Items returns the recorded diagnostics, in report order.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
