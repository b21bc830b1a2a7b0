package ast

import (
	"fmt"
	"strings"

	"github.com/halevi-tools/asm14/lexer"
)

// MaxDataOperands bounds the number of operands a .data directive may carry.
const MaxDataOperands = 50

// Build classifies one source line and returns its AST. Build never returns
// an error itself; syntactic failures are carried as an *ErrorLine so that a
// caller can continue processing subsequent lines (spec requires first pass
// to surface as many diagnostics as possible per file).
func Build(line string) Line {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return EmptyLine{}
	}
	if trimmed[0] == ';' {
		return CommentLine{}
	}

	c := lexer.NewCursor(line)
	first, ok := c.NextWord()
	if !ok {
		return EmptyLine{}
	}

	var label string
	hasLabel := false
	head := first
	if strings.HasSuffix(first, ":") {
		name, valid := lexer.IsValidIdentifier(first, true)
		if !valid {
			return errLine("invalid label name")
		}
		label = name
		hasLabel = true
		next, ok := c.NextWord()
		if !ok {
			return errLine("missing instruction or directive after label")
		}
		head = next
	}

	switch {
	case head == ".define":
		if hasLabel {
			return errLine(".define may not be preceded by a label")
		}
		return buildConstantDef(c)
	case isDirectiveWord(head):
		return buildDirective(c, head, label, hasLabel)
	case isOpcodeWord(head):
		return buildInstruction(c, head, label, hasLabel)
	default:
		return errLine("the first word must be an instruction or directive or .define or label name")
	}
}

func errLine(msg string) Line {
	return &ErrorLine{Message: msg}
}

func isDirectiveWord(s string) bool {
	if !strings.HasPrefix(s, ".") {
		return false
	}
	_, ok := lexer.Directives[s[1:]]
	return ok
}

func isOpcodeWord(s string) bool {
	_, ok := lexer.Opcodes[s]
	return ok
}

func buildConstantDef(c *lexer.Cursor) Line {
	name, ok := c.NextWord()
	if !ok {
		return errLine("missing name in .define")
	}
	ident, valid := lexer.IsValidIdentifier(name, false)
	if !valid {
		return errLine("invalid constant name")
	}
	eq, ok := c.NextWord()
	if !ok || eq != "=" {
		return errLine("expected '=' in .define")
	}
	numWord, ok := c.NextWord()
	if !ok {
		return errLine("missing value in .define")
	}
	n, valid := lexer.IsValidNumber(numWord)
	if !valid {
		return errLine("invalid value in .define")
	}
	if !c.AtEnd() {
		return errLine("unexpected characters after operands")
	}
	return &ConstantDefLine{Name: ident, Value: n}
}

func buildDirective(c *lexer.Cursor, word, label string, hasLabel bool) Line {
	kind := DirectiveKind(lexer.Directives[word[1:]])
	switch kind {
	case DirEntry, DirExtern:
		return buildEntryExtern(c, kind, label, hasLabel)
	case DirString:
		return buildString(c, label, hasLabel)
	case DirData:
		return buildData(c, label, hasLabel)
	default:
		return errLine("unknown directive")
	}
}

func buildEntryExtern(c *lexer.Cursor, kind DirectiveKind, label string, hasLabel bool) Line {
	op, ok := c.NextWord()
	if !ok {
		return errLine("missing operand")
	}
	ident, valid := lexer.IsValidIdentifier(op, false)
	if !valid {
		return errLine("invalid identifier operand")
	}
	if !c.AtEnd() {
		return errLine("unexpected characters after operands")
	}
	return &DirectiveLine{
		Label: label, HasLabel: hasLabel, Kind: kind, Identifier: ident,
	}
}

func buildString(c *lexer.Cursor, label string, hasLabel bool) Line {
	rest := strings.TrimSpace(c.Remainder())
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return errLine("string operand must be quoted")
	}
	inner := rest[1 : len(rest)-1]
	codes := make([]int, 0, len(inner))
	for i := 0; i < len(inner); i++ {
		b := inner[i]
		if b < 0x20 || b > 0x7e {
			return errLine("string operand contains non-printable characters")
		}
		codes = append(codes, int(b))
	}
	return &DirectiveLine{
		Label: label, HasLabel: hasLabel, Kind: DirString, StringValue: codes,
	}
}

func buildData(c *lexer.Cursor, label string, hasLabel bool) Line {
	tokens, err := splitByCommas(c.Remainder())
	if err != nil {
		return errLine(err.Error())
	}
	if len(tokens) == 0 {
		return errLine("missing operands in .data directive")
	}
	if len(tokens) > MaxDataOperands {
		return errLine("too many operands in .data directive")
	}
	ops := make([]DataOperand, 0, len(tokens))
	for _, tok := range tokens {
		if n, ok := lexer.IsValidNumber(tok); ok {
			ops = append(ops, DataOperand{Int: n})
			continue
		}
		if ident, ok := lexer.IsValidIdentifier(tok, false); ok {
			ops = append(ops, DataOperand{IsConstRef: true, ConstName: ident})
			continue
		}
		return errLine(fmt.Sprintf("invalid .data operand %q", tok))
	}
	return &DirectiveLine{
		Label: label, HasLabel: hasLabel, Kind: DirData, DataOperands: ops,
	}
}

// splitByCommas splits s on commas, requiring exactly one comma between
// consecutive operands: no leading comma, no trailing comma, no doubled
// comma. Returns nil, nil when s is blank (no operands present).
func splitByCommas(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for i, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			switch {
			case i == 0:
				return nil, fmt.Errorf("comma immediately after opcode is not allowed")
			case i == len(parts)-1:
				return nil, fmt.Errorf("trailing comma is not allowed")
			default:
				return nil, fmt.Errorf("consecutive commas are not allowed")
			}
		}
		tokens = append(tokens, trimmed)
	}
	return tokens, nil
}

func buildInstruction(c *lexer.Cursor, word, label string, hasLabel bool) Line {
	opcode := lexer.Opcodes[word]
	arity := lexer.Arity(opcode)

	tokens, err := splitByCommas(c.Remainder())
	if err != nil {
		return errLine(err.Error())
	}

	line := &InstructionLine{
		Label: label, HasLabel: hasLabel, Opcode: Opcode(opcode), Mnemonic: word,
		Operands: [2]Operand{NoOperand{}, NoOperand{}},
	}

	switch arity {
	case lexer.ArityZero:
		if len(tokens) != 0 {
			return errLine("unexpected characters after operands")
		}
	case lexer.ArityOne:
		if len(tokens) > 1 {
			return errLine("unexpected characters after operands")
		}
		if len(tokens) < 1 {
			return errLine("missing operand")
		}
		op, err := parseOperand(tokens[0])
		if err != nil {
			return errLine(err.Error())
		}
		line.Operands[1] = op
	case lexer.ArityTwo:
		if len(tokens) > 2 {
			return errLine("unexpected characters after operands")
		}
		if len(tokens) < 2 {
			return errLine("missing operand")
		}
		src, err := parseOperand(tokens[0])
		if err != nil {
			return errLine(err.Error())
		}
		dst, err := parseOperand(tokens[1])
		if err != nil {
			return errLine(err.Error())
		}
		line.Operands[0] = src
		line.Operands[1] = dst
	}

	if msg, ok := checkOperandCompatibility(word, arity, line.Operands); !ok {
		return errLine(msg)
	}

	return line
}

func parseOperand(tok string) (Operand, error) {
	switch {
	case strings.HasPrefix(tok, "#"):
		suffix := tok[1:]
		if n, ok := lexer.IsValidNumber(suffix); ok {
			return ImmediateOperand{Value: n}, nil
		}
		if ident, ok := lexer.IsValidIdentifier(suffix, false); ok {
			return ConstantRefOperand{Name: ident}, nil
		}
		return nil, fmt.Errorf("invalid immediate or constant operand %q", tok)

	case isRegisterWord(tok):
		return RegisterOperand{Register: lexer.Registers[tok]}, nil

	default:
		if idx := strings.IndexByte(tok, '['); idx >= 0 {
			if !strings.HasSuffix(tok, "]") {
				return nil, fmt.Errorf("malformed indexed operand %q", tok)
			}
			name := tok[:idx]
			idxStr := tok[idx+1 : len(tok)-1]
			ident, ok := lexer.IsValidIdentifier(name, false)
			if !ok {
				return nil, fmt.Errorf("invalid label in indexed operand %q", tok)
			}
			if n, ok := lexer.IsValidNumber(idxStr); ok {
				return LabelIndexedOperand{Label: ident, Index: ImmediateIndex{Value: n}}, nil
			}
			if cname, ok := lexer.IsValidIdentifier(idxStr, false); ok {
				return LabelIndexedOperand{Label: ident, Index: ConstantIndex{Name: cname}}, nil
			}
			return nil, fmt.Errorf("invalid index in indexed operand %q", tok)
		}

		if ident, ok := lexer.IsValidIdentifier(tok, false); ok {
			return LabelOperand{Label: ident}, nil
		}
		return nil, fmt.Errorf("invalid operand %q", tok)
	}
}

func isRegisterWord(s string) bool {
	_, ok := lexer.Registers[s]
	return ok
}

// checkOperandCompatibility applies the per-opcode syntactic operand-type
// restrictions described in spec.md §4.2.
func checkOperandCompatibility(mnemonic string, arity lexer.OpcodeArity, ops [2]Operand) (string, bool) {
	switch mnemonic {
	case "cmp", "prn":
		return "", true
	case "lea":
		src, dst := ops[0], ops[1]
		if isImmediateOrConstant(src) {
			return "lea source may not be an immediate or constant", false
		}
		if isImmediateOrConstant(dst) {
			return "lea destination may not be an immediate or constant", false
		}
		return "", true
	case "jmp", "bne", "jsr":
		switch ops[1].(type) {
		case LabelOperand, RegisterOperand:
			return "", true
		default:
			return mnemonic + " destination must be a label or register", false
		}
	default:
		if arity == lexer.ArityTwo && isImmediateOrConstant(ops[1]) {
			return "destination may not be an immediate or constant", false
		}
		return "", true
	}
}

func isImmediateOrConstant(op Operand) bool {
	switch op.(type) {
	case ImmediateOperand, ConstantRefOperand:
		return true
	default:
		return false
	}
}
