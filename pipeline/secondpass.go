package pipeline

import (
	"github.com/halevi-tools/asm14/ast"
	"github.com/halevi-tools/asm14/diag"
	"github.com/halevi-tools/asm14/encode"
	"github.com/halevi-tools/asm14/lexer"
	"github.com/halevi-tools/asm14/symtab"
)

// addressingMode returns the two-bit addressing-mode code for an operand:
// 0 immediate/constant/none, 1 direct label, 2 indexed label, 3 register.
func addressingMode(op ast.Operand) encode.Word {
	switch op.(type) {
	case ast.LabelOperand:
		return 1
	case ast.LabelIndexedOperand:
		return 2
	case ast.RegisterOperand:
		return 3
	default:
		return 0
	}
}

const (
	areAbsolute  = 0
	areExternal  = 1
	areRelocated = 2
)

// SecondPass assumes FirstPass produced no errors. It rebuilds each line's
// AST, resolves symbol and constant references, and emits the instruction
// and data images.
func SecondPass(u *Unit, lines []string, bag *diag.Bag) {
	u.IC = Origin
	u.Instructions = u.Instructions[:0]
	u.Data = u.Data[:0]
	u.Externs = nil

	for i, raw := range lines {
		lineNum := i + 1

		switch l := ast.Build(raw).(type) {
		case *ast.DirectiveLine:
			secondPassDirective(u, l, lineNum, bag)
		case *ast.InstructionLine:
			secondPassInstruction(u, l, lineNum, bag)
		}
	}
}

func secondPassDirective(u *Unit, d *ast.DirectiveLine, lineNum int, bag *diag.Bag) {
	switch d.Kind {
	case ast.DirData:
		for _, op := range d.DataOperands {
			val := op.Int
			if op.IsConstRef {
				v, ok, msg := resolveConstant(u, op.ConstName, lineNum)
				if !ok {
					bag.Add(lineNum, "%s", msg)
					continue
				}
				val = v
			}
			u.Data = append(u.Data, encode.FromInt(val))
		}
	case ast.DirString:
		for _, c := range d.StringValue {
			u.Data = append(u.Data, encode.FromInt(c))
		}
		u.Data = append(u.Data, encode.FromInt(0))
	}
}

func secondPassInstruction(u *Unit, in *ast.InstructionLine, lineNum int, bag *diag.Bag) {
	opword := encode.Word(0)
	opword |= addressingMode(in.Operands[0]) << 4
	opword |= addressingMode(in.Operands[1]) << 2
	opword |= encode.Word(in.Opcode) << 6
	u.Instructions = append(u.Instructions, opword)
	u.IC++

	arity := lexer.Arity(int(in.Opcode))
	if arity == lexer.ArityZero {
		return
	}

	src, dst := in.Operands[0], in.Operands[1]
	srcReg, srcIsReg := src.(ast.RegisterOperand)
	dstReg, dstIsReg := dst.(ast.RegisterOperand)
	if arity == lexer.ArityTwo && srcIsReg && dstIsReg {
		word := encode.Word(dstReg.Register)<<2 | encode.Word(srcReg.Register)<<5
		u.Instructions = append(u.Instructions, word)
		u.IC++
		return
	}

	if arity == lexer.ArityTwo {
		emitOperandWord(u, src, false, lineNum, bag)
	}
	emitOperandWord(u, dst, true, lineNum, bag)
}

// emitOperandWord emits the word(s) for a single non-paired-register
// operand. isDestination selects which register field (bits 2-4 vs 5-7) a
// bare register operand lands in.
func emitOperandWord(u *Unit, op ast.Operand, isDestination bool, lineNum int, bag *diag.Bag) {
	switch o := op.(type) {
	case ast.NoOperand:
		return

	case ast.ImmediateOperand:
		u.Instructions = append(u.Instructions, encode.FromInt(o.Value*4))
		u.IC++

	case ast.ConstantRefOperand:
		v, ok, msg := resolveConstant(u, o.Name, lineNum)
		if !ok {
			bag.Add(lineNum, "%s", msg)
			u.Instructions = append(u.Instructions, 0)
			u.IC++
			return
		}
		u.Instructions = append(u.Instructions, encode.FromInt(v*4))
		u.IC++

	case ast.RegisterOperand:
		var word encode.Word
		if isDestination {
			word = encode.Word(o.Register) << 2
		} else {
			word = encode.Word(o.Register) << 5
		}
		u.Instructions = append(u.Instructions, word)
		u.IC++

	case ast.LabelOperand:
		emitLabelWord(u, o.Label, lineNum, bag)

	case ast.LabelIndexedOperand:
		emitLabelWord(u, o.Label, lineNum, bag)
		emitIndexWord(u, o.Index, lineNum, bag)
	}
}

func emitLabelWord(u *Unit, name string, lineNum int, bag *diag.Bag) {
	sym, ok := u.Symbols.Lookup(name)
	if !ok || sym.Kind == symtab.EntryPending || sym.Kind == symtab.Constant {
		bag.Add(lineNum, "undefined label %q", name)
		u.Instructions = append(u.Instructions, 0)
		u.IC++
		return
	}

	if sym.Kind == symtab.Extern {
		u.Instructions = append(u.Instructions, encode.Word(areExternal))
		u.AddExternRef(name, u.IC)
		u.IC++
		return
	}

	word := encode.Word(areRelocated) | (encode.Word(sym.Address) << 2)
	u.Instructions = append(u.Instructions, word)
	u.IC++
}

func emitIndexWord(u *Unit, index ast.Index, lineNum int, bag *diag.Bag) {
	var idx int
	switch ix := index.(type) {
	case ast.ImmediateIndex:
		idx = ix.Value
	case ast.ConstantIndex:
		v, ok, msg := resolveConstant(u, ix.Name, lineNum)
		if !ok {
			bag.Add(lineNum, "%s", msg)
			u.Instructions = append(u.Instructions, 0)
			u.IC++
			return
		}
		idx = v
	}
	u.Instructions = append(u.Instructions, encode.FromInt(idx*4))
	u.IC++
}

// resolveConstant applies the forward-reference rule: a constant used on
// source line useLine must have been defined strictly before it.
func resolveConstant(u *Unit, name string, useLine int) (int, bool, string) {
	sym, ok := u.Symbols.Lookup(name)
	if !ok || sym.Kind != symtab.Constant {
		return 0, false, "undefined constant \"" + name + "\""
	}
	if sym.Address >= useLine {
		return 0, false, "constant \"" + name + "\" is used before it is defined"
	}
	return sym.Value, true, ""
}
