package symtab_test

import (
	"testing"

	"github.com/halevi-tools/asm14/symtab"
)

func TestInsertAndLookup(t *testing.T) {
	tab := symtab.New()
	tab.Insert(&symtab.Symbol{Name: "X", Kind: symtab.Data, Address: 0})
	s, ok := tab.Lookup("X")
	if !ok || s.Address != 0 {
		t.Fatalf("unexpected lookup result: %+v, %v", s, ok)
	}
	if _, ok := tab.Lookup("Y"); ok {
		t.Fatal("expected Y to be absent")
	}
}

func TestFixupDataAddresses(t *testing.T) {
	tab := symtab.New()
	tab.Insert(&symtab.Symbol{Name: "X", Kind: symtab.Data, Address: 0})
	tab.Insert(&symtab.Symbol{Name: "Y", Kind: symtab.Inst, Address: 5})
	tab.FixupDataAddresses(102)
	x, _ := tab.Lookup("X")
	y, _ := tab.Lookup("Y")
	if x.Address != 102 {
		t.Errorf("expected X address 102, got %d", x.Address)
	}
	if y.Address != 5 {
		t.Errorf("instruction symbol address should be untouched, got %d", y.Address)
	}
}

func TestEntriesOnlyIncludesEntryKinds(t *testing.T) {
	tab := symtab.New()
	tab.Insert(&symtab.Symbol{Name: "A", Kind: symtab.Data})
	tab.Insert(&symtab.Symbol{Name: "B", Kind: symtab.DataEntry})
	tab.Insert(&symtab.Symbol{Name: "C", Kind: symtab.InstEntry})
	entries := tab.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
}
