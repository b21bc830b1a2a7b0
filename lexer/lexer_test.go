package lexer_test

import (
	"testing"

	"github.com/halevi-tools/asm14/lexer"
)

func TestNextWord(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		words []string
	}{
		{"simple", "mov r1, r2", []string{"mov", "r1", "r2"}},
		{"commas_are_separators", "mov   r1,,r2", []string{"mov", "r1", "r2"}},
		{"leading_whitespace", "   .data 1, 2", []string{".data", "1", "2"}},
		{"empty", "", nil},
		{"only_separators", "  ,  ,", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := lexer.NewCursor(tc.line)
			var got []string
			for {
				w, ok := c.NextWord()
				if !ok {
					break
				}
				got = append(got, w)
			}
			if len(got) != len(tc.words) {
				t.Fatalf("got %v, want %v", got, tc.words)
			}
			for i := range got {
				if got[i] != tc.words[i] {
					t.Fatalf("got %v, want %v", got, tc.words)
				}
			}
		})
	}
}

func TestIsValidNumber(t *testing.T) {
	tests := []struct {
		s    string
		want int
		ok   bool
	}{
		{"5", 5, true},
		{"-3", -3, true},
		{"-2048", -2048, true},
		{"2047", 2047, true},
		{"2048", 0, false},
		{"-2049", 0, false},
		{"+5", 0, false},
		{"5a", 0, false},
		{"-20480", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := lexer.IsValidNumber(tc.s)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("IsValidNumber(%q) = (%d, %v), want (%d, %v)", tc.s, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		s        string
		declSite bool
		ok       bool
	}{
		{"LOOP:", true, true},
		{"LOOP", false, true},
		{"1LOOP", false, false},
		{"LOOP", true, false}, // missing colon at declaration site
		{"r1", false, false},
		{"mov", false, false},
		{".data", false, false},
		{"", false, false},
	}
	for _, tc := range tests {
		_, ok := lexer.IsValidIdentifier(tc.s, tc.declSite)
		if ok != tc.ok {
			t.Errorf("IsValidIdentifier(%q, %v) ok = %v, want %v", tc.s, tc.declSite, ok, tc.ok)
		}
	}
}

func TestArity(t *testing.T) {
	if lexer.Arity(lexer.Opcodes["mov"]) != lexer.ArityTwo {
		t.Error("mov should be two-operand")
	}
	if lexer.Arity(lexer.Opcodes["lea"]) != lexer.ArityTwo {
		t.Error("lea should be two-operand")
	}
	if lexer.Arity(lexer.Opcodes["jmp"]) != lexer.ArityOne {
		t.Error("jmp should be one-operand")
	}
	if lexer.Arity(lexer.Opcodes["rts"]) != lexer.ArityZero {
		t.Error("rts should be zero-operand")
	}
}
