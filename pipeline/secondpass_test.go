package pipeline

import (
	"testing"

	"github.com/halevi-tools/asm14/diag"
)

func runBothPasses(lines []string) (*Unit, *diag.Bag) {
	u := NewUnit()
	bag := diag.NewBag("t.am")
	FirstPass(u, lines, nil, bag)
	if bag.HasErrors() {
		return u, bag
	}
	SecondPass(u, lines, bag)
	return u, bag
}

func TestSecondPassImmediateOperandShiftedByTwo(t *testing.T) {
	u, bag := runBothPasses([]string{"mov #5, r1"})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(u.Instructions) != 3 {
		t.Fatalf("Instructions = %v, want 3 words", u.Instructions)
	}
	immWord := u.Instructions[1]
	if got := immWord.SignedValue(); got != 5<<2 {
		t.Errorf("immediate word = %d, want %d", got, 5<<2)
	}
}

func TestSecondPassConstantRefResolvesAndShifts(t *testing.T) {
	u, bag := runBothPasses([]string{".define K = 7", "mov #K, r1"})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	immWord := u.Instructions[1]
	if got := immWord.SignedValue(); got != 7<<2 {
		t.Errorf("constant-ref word = %d, want %d", got, 7<<2)
	}
}

func TestSecondPassUndefinedLabelIsError(t *testing.T) {
	_, bag := runBothPasses([]string{"jmp NOWHERE", "hlt"})
	if !bag.HasErrors() {
		t.Fatal("expected an undefined-label diagnostic")
	}
}

func TestSecondPassRelocatedLabelEncodesAddress(t *testing.T) {
	u, bag := runBothPasses([]string{"LOOP: inc r1", "jmp LOOP"})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	// inc r1 = 2 words (100, 101); jmp LOOP's label word is at 103.
	labelWord := u.Instructions[3]
	if are := labelWord & 3; are != areRelocated {
		t.Errorf("ARE bits = %d, want %d (relocated)", are, areRelocated)
	}
	if addr := (labelWord >> 2); int(addr) != Origin {
		t.Errorf("encoded address = %d, want %d", addr, Origin)
	}
}

func TestSecondPassIndexedLabelWithConstantIndex(t *testing.T) {
	u, bag := runBothPasses([]string{
		".define IDX = 2",
		"ARR: .data 1, 2, 3",
		"mov ARR[IDX], r1",
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	// opcode(100) + ARR label word(101) + index word(102) + r1 word(103)
	if len(u.Instructions) != 4 {
		t.Fatalf("Instructions = %v, want 4 words", u.Instructions)
	}
	idxWord := u.Instructions[2]
	if got := idxWord.SignedValue(); got != 2<<2 {
		t.Errorf("index word = %d, want %d", got, 2<<2)
	}
}

func TestSecondPassStringDataEmitsCharsAndTerminator(t *testing.T) {
	u, bag := runBothPasses([]string{`STR: .string "Hi"`})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []int{'H', 'i', 0}
	if len(u.Data) != len(want) {
		t.Fatalf("Data = %v, want %d words", u.Data, len(want))
	}
	for i, w := range want {
		if got := u.Data[i].SignedValue(); got != w {
			t.Errorf("Data[%d] = %d, want %d", i, got, w)
		}
	}
}
