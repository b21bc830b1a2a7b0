// Package lexer provides the whitespace/comma-aware word scanner and the
// token-validity predicates shared by the macro expander and the AST
// builder.
package lexer

import (
	"strconv"
	"strings"
)

// MaxLineLen is the longest a source line may be, excluding its terminator.
// A var, not a const: an optional asm14.toml settings file (see the
// config package) may override it before any file is processed.
var MaxLineLen = 80

// MaxLabelLen is the longest an identifier may be. Overridable, see MaxLineLen.
var MaxLabelLen = 31

// MinImmediate and MaxImmediate bound the signed 12-bit immediate range.
// The config package does not override them.
var (
	MinImmediate = -2048
	MaxImmediate = 2047
)

// Registers maps register mnemonics to their index, 0-7 for the general
// purpose registers and 8/9 for PSW/PC.
var Registers = map[string]int{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3, "r4": 4, "r5": 5, "r6": 6, "r7": 7,
	"PSW": 8, "PC": 9,
}

// Directives maps directive mnemonics (without the leading dot) to their index.
var Directives = map[string]int{
	"data": 0, "string": 1, "entry": 2, "extern": 3,
}

// Opcodes maps mnemonics to their opcode index, 0-15.
var Opcodes = map[string]int{
	"mov": 0, "cmp": 1, "add": 2, "sub": 3,
	"not": 4, "clr": 5, "lea": 6, "inc": 7, "dec": 8, "jmp": 9, "bne": 10,
	"red": 11, "prn": 12, "jsr": 13, "rts": 14, "hlt": 15,
}

// OpcodeArity classifies how many operands an opcode expects.
type OpcodeArity int

const (
	// ArityTwo opcodes take (source, destination).
	ArityTwo OpcodeArity = iota
	// ArityOne opcodes take (destination) only.
	ArityOne
	// ArityZero opcodes take no operands.
	ArityZero
)

// Arity returns the operand arity class for an opcode index.
func Arity(opcode int) OpcodeArity {
	switch {
	case opcode <= 3 || opcode == 6:
		return ArityTwo
	case opcode == 14 || opcode == 15:
		return ArityZero
	default:
		return ArityOne
	}
}

// Cursor walks a source line word by word.
type Cursor struct {
	line string
	pos  int
}

// NewCursor returns a cursor positioned at the start of line.
func NewCursor(line string) *Cursor {
	return &Cursor{line: line}
}

// Remainder returns the unconsumed tail of the line, unmodified.
func (c *Cursor) Remainder() string {
	return c.line[c.pos:]
}

// AtEnd reports whether only whitespace/commas remain.
func (c *Cursor) AtEnd() bool {
	i := c.pos
	for i < len(c.line) && isSep(c.line[i]) {
		i++
	}
	return i >= len(c.line)
}

func isSep(b byte) bool {
	return b == ' ' || b == '\t' || b == ','
}

// NextWord skips any run of whitespace and commas, then returns the longest
// maximal span of non-whitespace, non-comma characters. ok is false if the
// cursor reached end of line without finding a word.
func (c *Cursor) NextWord() (word string, ok bool) {
	i := c.pos
	for i < len(c.line) && isSep(c.line[i]) {
		i++
	}
	if i >= len(c.line) {
		c.pos = i
		return "", false
	}
	start := i
	for i < len(c.line) && !isSep(c.line[i]) {
		i++
	}
	c.pos = i
	return c.line[start:i], true
}

// IsValidNumber parses a signed decimal integer, rejecting trailing
// non-digits, values outside -2048..2047, and textual forms longer than
// 5 characters (sign plus up to four digits).
func IsValidNumber(s string) (int, bool) {
	if len(s) == 0 || len(s) > 5 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if n < MinImmediate || n > MaxImmediate {
		return 0, false
	}
	// strconv.Atoi accepts a leading '+' which the surface grammar does not;
	// reject it explicitly.
	if s[0] == '+' {
		return 0, false
	}
	return n, true
}

// IsValidIdentifier validates an identifier. If declSite is true, s must end
// in ':' (stripped before further validation). Length 1 to MaxLabelLen
// (31 by default), first character
// alphabetic, remainder alphanumeric, and not a register/directive/opcode
// keyword.
func IsValidIdentifier(s string, declSite bool) (string, bool) {
	if declSite {
		if !strings.HasSuffix(s, ":") {
			return "", false
		}
		s = s[:len(s)-1]
	}
	if len(s) < 1 || len(s) > MaxLabelLen {
		return "", false
	}
	if !isAlpha(s[0]) {
		return "", false
	}
	for i := 1; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return "", false
		}
	}
	if _, ok := Registers[s]; ok {
		return "", false
	}
	if _, ok := Directives[s]; ok {
		return "", false
	}
	if _, ok := Opcodes[s]; ok {
		return "", false
	}
	return s, true
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9')
}
