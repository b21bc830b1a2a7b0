// Package macro implements the line-oriented macro pre-assembler: it reads
// a source file line by line and produces the fully macro-expanded form,
// with macro definitions removed and invocations replaced by their stored
// body. The macro table built here is a per-file value; nothing escapes
// into a later stage except the expanded line stream.
package macro

import (
	"fmt"

	"github.com/halevi-tools/asm14/lexer"
)

type definition struct {
	name string
	body []string
}

// Expand macro-expands lines (one source file's content, newline-free
// entries) and returns the expanded line stream plus the set of names
// defined as macros. An error means the file is rejected outright; the
// caller must discard any partial output. The macro-name set is returned
// so the first pass can enforce spec.md §3.2's "an identifier may not
// simultaneously name a symbol and a macro" invariant, which needs to see
// names that disappear from the expanded text itself.
func Expand(lines []string) ([]string, map[string]bool, error) {
	table := make(map[string]*definition)
	out := make([]string, 0, len(lines))
	var current *definition

	for i, raw := range lines {
		lineNum := i + 1
		if len(raw) > lexer.MaxLineLen {
			return nil, nil, fmt.Errorf("line %d: line exceeds the maximum length of %d characters", lineNum, lexer.MaxLineLen)
		}

		if isCommentLine(raw) {
			out = append(out, raw)
			continue
		}

		words := collectWords(raw)
		if len(words) == 0 {
			if current != nil {
				current.body = append(current.body, raw)
			} else {
				out = append(out, raw)
			}
			continue
		}

		action, invoked, err := classify(words, table, current != nil, lineNum)
		if err != nil {
			return nil, nil, err
		}

		switch action {
		case actionBeginDef:
			name := words[1]
			if _, exists := table[name]; exists {
				return nil, nil, fmt.Errorf("line %d: macro %q is already defined", lineNum, name)
			}
			if isReservedName(name) {
				return nil, nil, fmt.Errorf("line %d: macro name %q collides with a directive or instruction", lineNum, name)
			}
			def := &definition{name: name}
			table[name] = def
			current = def
		case actionEndDef:
			if current == nil {
				return nil, nil, fmt.Errorf("line %d: endmcr without a matching macro definition", lineNum)
			}
			current = nil
		case actionInvoke:
			out = append(out, invoked.body...)
		case actionOther:
			if current != nil {
				current.body = append(current.body, raw)
			} else {
				out = append(out, raw)
			}
		}
	}

	if current != nil {
		return nil, nil, fmt.Errorf("macro %q has no matching endmcr", current.name)
	}

	names := make(map[string]bool, len(table))
	for name := range table {
		names[name] = true
	}
	return out, names, nil
}

type action int

const (
	actionOther action = iota
	actionBeginDef
	actionEndDef
	actionInvoke
)

// classify scans a line's words the way the original pre-assembler does:
// word by word, in order, so a macro invocation can be recognized by any
// word position on the line, and so "mcr"/"endmcr" appearing anywhere but
// the front of the line is itself an error.
func classify(words []string, table map[string]*definition, inDefinition bool, lineNum int) (action, *definition, error) {
	sawMcr := false
	sawEndmcr := false

	for idx, w := range words {
		switch {
		case w == "mcr":
			if idx > 0 {
				return 0, nil, fmt.Errorf("line %d: macro definition must be at the beginning of the line", lineNum)
			}
			sawMcr = true

		case sawMcr:
			if idx > 1 {
				return 0, nil, fmt.Errorf("line %d: the macro definition line may only contain mcr and the macro name", lineNum)
			}

		case w == "endmcr":
			if idx > 0 {
				return 0, nil, fmt.Errorf("line %d: endmcr must be at the beginning of the line", lineNum)
			}
			sawEndmcr = true

		default:
			if def, ok := table[w]; ok {
				return actionInvoke, def, nil
			}
			if sawEndmcr {
				return 0, nil, fmt.Errorf("line %d: text found after endmcr", lineNum)
			}
		}
	}

	switch {
	case sawMcr:
		if len(words) == 1 {
			return 0, nil, fmt.Errorf("line %d: macro definition is missing a name", lineNum)
		}
		return actionBeginDef, nil, nil
	case sawEndmcr:
		return actionEndDef, nil, nil
	default:
		return actionOther, nil, nil
	}
}

func isCommentLine(raw string) bool {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ', '\t':
			continue
		case ';':
			return true
		default:
			return false
		}
	}
	return false
}

func collectWords(raw string) []string {
	c := lexer.NewCursor(raw)
	var words []string
	for {
		w, ok := c.NextWord()
		if !ok {
			break
		}
		words = append(words, w)
	}
	return words
}

func isReservedName(name string) bool {
	if _, ok := lexer.Opcodes[name]; ok {
		return true
	}
	if _, ok := lexer.Directives[name]; ok {
		return true
	}
	return false
}
