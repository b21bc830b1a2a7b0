// Package pipeline implements the first- and second-pass stages of the
// assembler and the per-file translation-unit state they share.
package pipeline

import (
	"github.com/halevi-tools/asm14/encode"
	"github.com/halevi-tools/asm14/symtab"
)

// Origin is the program load address; IC starts here.
const Origin = 100

// MaxMemory bounds IC+DC together, per spec.md §3.1. A var, not a const:
// an optional asm14.toml settings file (see the config package) may
// override it before any file is processed.
var MaxMemory = 3996

// ExternRef is one instruction-word address at which an extern symbol was
// referenced.
type ExternRef struct {
	Name string
	Addr int
}

// Unit is the per-file translation-unit value threaded through both
// passes. It owns every piece of per-file state: nothing here is shared
// across files, and all of it is dropped together at end of file
// (success or failure alike), per spec.md §5.
type Unit struct {
	IC int
	DC int

	Instructions []encode.Word
	Data         []encode.Word

	Symbols *symtab.Table
	Externs []ExternRef
}

// NewUnit returns a fresh translation unit with IC initialized to Origin.
func NewUnit() *Unit {
	return &Unit{
		IC:      Origin,
		Symbols: symtab.New(),
	}
}

// AddExternRef records one reference site for an extern symbol.
func (u *Unit) AddExternRef(name string, addr int) {
	u.Externs = append(u.Externs, ExternRef{Name: name, Addr: addr})
}
