package macro_test

import (
	"reflect"
	"testing"

	"github.com/halevi-tools/asm14/macro"
)

func TestExpandBasicInvocation(t *testing.T) {
	src := []string{
		"mcr m1",
		"mov r1, r2",
		"inc r1",
		"endmcr",
		"m1",
		"hlt",
	}
	got, names, err := macro.Expand(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"mov r1, r2",
		"inc r1",
		"hlt",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if !names["m1"] {
		t.Fatalf("expected %q in the defined-macro-names set, got %v", "m1", names)
	}
}

func TestExpandCommentsPassThroughInsideDefinition(t *testing.T) {
	src := []string{
		"mcr m1",
		"; a comment inside the macro",
		"inc r1",
		"endmcr",
		"m1",
	}
	got, _, err := macro.Expand(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"; a comment inside the macro",
		"inc r1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpandMissingEndmcr(t *testing.T) {
	_, _, err := macro.Expand([]string{"mcr m1", "inc r1"})
	if err == nil {
		t.Fatal("expected error for missing endmcr")
	}
}

func TestExpandTextAfterEndmcr(t *testing.T) {
	_, _, err := macro.Expand([]string{"mcr m1", "inc r1", "endmcr junk"})
	if err == nil {
		t.Fatal("expected error for text after endmcr")
	}
}

func TestExpandDuplicateName(t *testing.T) {
	_, _, err := macro.Expand([]string{"mcr m1", "hlt", "endmcr", "mcr m1", "hlt", "endmcr"})
	if err == nil {
		t.Fatal("expected error for duplicate macro name")
	}
}

func TestExpandReservedName(t *testing.T) {
	_, _, err := macro.Expand([]string{"mcr mov", "hlt", "endmcr"})
	if err == nil {
		t.Fatal("expected error for reserved macro name")
	}
}

func TestExpandLineTooLong(t *testing.T) {
	long := make([]byte, 81)
	for i := range long {
		long[i] = 'a'
	}
	_, _, err := macro.Expand([]string{string(long)})
	if err == nil {
		t.Fatal("expected error for overlong line")
	}
}

func TestExpandMcrNotAtStart(t *testing.T) {
	_, _, err := macro.Expand([]string{"foo mcr bar"})
	if err == nil {
		t.Fatal("expected error for mcr not at start of line")
	}
}
