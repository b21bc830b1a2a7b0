package pipeline

import (
	"github.com/halevi-tools/asm14/diag"
	"github.com/halevi-tools/asm14/macro"
)

// Result is what a successful (or partially successful, for diagnostic
// inspection) Assemble call produces: the translation unit plus the fully
// macro-expanded source, and whether the file is clean enough to emit
// artifacts for.
type Result struct {
	Unit     *Unit
	Expanded []string
	Bag      *diag.Bag
	OK       bool
}

// Assemble runs the full three-stage pipeline over one file's source
// lines (already split, no line terminators). name is used only to tag
// diagnostics. Per spec.md §7.2, second pass is skipped entirely if first
// pass produced any diagnostic, and artifacts should only be written when
// OK is true.
func Assemble(name string, sourceLines []string) Result {
	bag := diag.NewBag(name)

	expanded, macroNames, err := macro.Expand(sourceLines)
	if err != nil {
		bag.Add(0, "%s", err.Error())
		return Result{Bag: bag, OK: false}
	}

	u := NewUnit()
	FirstPass(u, expanded, macroNames, bag)
	if bag.HasErrors() {
		return Result{Unit: u, Expanded: expanded, Bag: bag, OK: false}
	}

	SecondPass(u, expanded, bag)
	if bag.HasErrors() {
		return Result{Unit: u, Expanded: expanded, Bag: bag, OK: false}
	}

	return Result{Unit: u, Expanded: expanded, Bag: bag, OK: true}
}
