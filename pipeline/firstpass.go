package pipeline

import (
	"github.com/halevi-tools/asm14/ast"
	"github.com/halevi-tools/asm14/diag"
	"github.com/halevi-tools/asm14/lexer"
	"github.com/halevi-tools/asm14/symtab"
)

// FirstPass walks the macro-expanded lines, building the symbol table and
// accounting for IC/DC. It reports as many diagnostics as possible rather
// than stopping at the first one, per spec.md §7.2. macroNames is the set
// of names the macro pre-assembler defined in this file; every place a
// symbol name is introduced checks against it, per spec.md §3.2 ("an
// identifier may not simultaneously name a symbol and a macro").
func FirstPass(u *Unit, lines []string, macroNames map[string]bool, bag *diag.Bag) {
	overflowed := false
	for i, raw := range lines {
		lineNum := i + 1
		switch l := ast.Build(raw).(type) {
		case ast.EmptyLine, ast.CommentLine:
			continue
		case *ast.ErrorLine:
			bag.Add(lineNum, "%s", l.Message)
		case *ast.ConstantDefLine:
			firstPassConstantDef(u, l, lineNum, macroNames, bag)
		case *ast.DirectiveLine:
			firstPassDirective(u, l, lineNum, macroNames, bag)
		case *ast.InstructionLine:
			firstPassInstruction(u, l, lineNum, macroNames, bag)
		}

		if !overflowed && u.IC+u.DC > MaxMemory+Origin {
			bag.Add(lineNum, "program exceeds the maximum memory footprint of %d words", MaxMemory)
			overflowed = true
		}
	}

	finishFirstPass(u, bag)
}

func firstPassConstantDef(u *Unit, c *ast.ConstantDefLine, lineNum int, macroNames map[string]bool, bag *diag.Bag) {
	if macroNames[c.Name] {
		bag.Add(lineNum, "redefining a name for a macro and symbol")
		return
	}
	if _, exists := u.Symbols.Lookup(c.Name); exists {
		bag.Add(lineNum, "redefenition of symbol")
		return
	}
	u.Symbols.Insert(&symtab.Symbol{
		Name:    c.Name,
		Kind:    symtab.Constant,
		Address: lineNum,
		Value:   c.Value,
	})
}

func firstPassDirective(u *Unit, d *ast.DirectiveLine, lineNum int, macroNames map[string]bool, bag *diag.Bag) {
	switch d.Kind {
	case ast.DirData, ast.DirString:
		if d.HasLabel {
			introduceLabel(u, d.Label, lineNum, macroNames, bag, false)
		}
		if d.Kind == ast.DirData {
			u.DC += len(d.DataOperands)
		} else {
			u.DC += len(d.StringValue) + 1
		}
	case ast.DirEntry:
		declareEntryOrExtern(u, d.Identifier, true, lineNum, macroNames, bag)
	case ast.DirExtern:
		declareEntryOrExtern(u, d.Identifier, false, lineNum, macroNames, bag)
	}
}

// introduceLabel handles a declaration-site label on a .data/.string or
// instruction line, per spec.md §4.4 "Label introduction".
func introduceLabel(u *Unit, name string, lineNum int, macroNames map[string]bool, bag *diag.Bag, isInstruction bool) {
	if macroNames[name] {
		bag.Add(lineNum, "redefining a name for a macro and symbol")
		return
	}

	existing, exists := u.Symbols.Lookup(name)
	if !exists {
		kind := symtab.Data
		addr := u.DC
		if isInstruction {
			kind = symtab.Inst
			addr = u.IC
		}
		u.Symbols.Insert(&symtab.Symbol{Name: name, Kind: kind, Address: addr})
		return
	}

	if existing.Kind != symtab.EntryPending {
		bag.Add(lineNum, "redefenition of symbol")
		return
	}

	if isInstruction {
		existing.Kind = symtab.InstEntry
		existing.Address = u.IC
	} else {
		existing.Kind = symtab.DataEntry
		existing.Address = u.DC
	}
}

func declareEntryOrExtern(u *Unit, name string, isEntry bool, lineNum int, macroNames map[string]bool, bag *diag.Bag) {
	if macroNames[name] {
		bag.Add(lineNum, "redefining a name for a macro and symbol")
		return
	}

	existing, exists := u.Symbols.Lookup(name)
	if !exists {
		kind := symtab.Extern
		if isEntry {
			kind = symtab.EntryPending
		}
		u.Symbols.Insert(&symtab.Symbol{Name: name, Kind: kind})
		return
	}

	if isEntry {
		switch existing.Kind {
		case symtab.Data:
			existing.Kind = symtab.DataEntry
		case symtab.Inst:
			existing.Kind = symtab.InstEntry
		default:
			bag.Add(lineNum, "redefenition of symbol")
		}
		return
	}

	// .extern: any existing symbol of any kind is a conflict.
	bag.Add(lineNum, "redefenition of symbol")
}

func firstPassInstruction(u *Unit, in *ast.InstructionLine, lineNum int, macroNames map[string]bool, bag *diag.Bag) {
	if in.HasLabel {
		introduceLabel(u, in.Label, lineNum, macroNames, bag, true)
	}
	u.IC += memoryCells(in)
}

// memoryCells computes the number of words an instruction line occupies,
// per spec.md §4.4.1. For the one-operand opcode class the lone operand
// lives in slot 1 (see SPEC_FULL.md §4's resolution of the "which slot"
// open question); checking slot 1 here (not slot 0, as the original
// implementation's memory_cell_calculator mistakenly did) is what makes a
// LabelIndexed destination on not/clr/inc/dec/red/prn correctly add its
// second word.
func memoryCells(in *ast.InstructionLine) int {
	arity := lexer.Arity(int(in.Opcode))
	switch arity {
	case lexer.ArityZero:
		return 1
	case lexer.ArityOne:
		if isLabelIndexed(in.Operands[1]) {
			return 1 + 2
		}
		return 1 + 1
	default: // ArityTwo (including lea)
		if isRegister(in.Operands[0]) && isRegister(in.Operands[1]) {
			return 1 + 1
		}
		words := 0
		for _, op := range in.Operands {
			if isLabelIndexed(op) {
				words += 2
			} else {
				words += 1
			}
		}
		return 1 + words
	}
}

func isLabelIndexed(op ast.Operand) bool {
	_, ok := op.(ast.LabelIndexedOperand)
	return ok
}

func isRegister(op ast.Operand) bool {
	_, ok := op.(ast.RegisterOperand)
	return ok
}

func finishFirstPass(u *Unit, bag *diag.Bag) {
	for _, s := range u.Symbols.All() {
		if s.Kind == symtab.EntryPending {
			bag.Add(0, "symbol %q was defined as an entry but did not receive a value", s.Name)
		}
	}
	u.Symbols.FixupDataAddresses(u.IC)
}
