// Package writer renders an assembled translation unit into the three
// output file formats spec.md §6.4–§6.6 defines: object, entries, and
// externals.
package writer

import (
	"fmt"
	"os"
	"strings"

	"github.com/halevi-tools/asm14/encode"
	"github.com/halevi-tools/asm14/pipeline"
)

// Object renders the `.ob` file body for u: a "  IC DC" header line
// followed by one "0ADDR CCCCCCC" line per memory word, instructions
// first, then data.
func Object(u *pipeline.Unit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %d %d\n", len(u.Instructions), len(u.Data))

	addr := pipeline.Origin
	for _, w := range u.Instructions {
		fmt.Fprintf(&b, "0%d %s\n", addr, encode.EncodeBase4(w))
		addr++
	}
	for _, w := range u.Data {
		fmt.Fprintf(&b, "0%d %s\n", addr, encode.EncodeBase4(w))
		addr++
	}
	return b.String()
}

// Entries renders the `.ent` file body: one "NAME\t0ADDR" line per
// data_entry/inst_entry symbol, in declaration order. Returns "", false if
// there are none, per spec.md §6.5 ("emitted only if at least one entry
// exists").
func Entries(u *pipeline.Unit) (string, bool) {
	entries := u.Symbols.Entries()
	if len(entries) == 0 {
		return "", false
	}
	var b strings.Builder
	for _, s := range entries {
		fmt.Fprintf(&b, "%s\t0%d\n", s.Name, s.Address)
	}
	return b.String(), true
}

// Externals renders the `.ext` file body: one "NAME\t0ADDR" line per
// extern reference site, in the order they were encountered during second
// pass. Returns "", false if there are none.
func Externals(u *pipeline.Unit) (string, bool) {
	if len(u.Externs) == 0 {
		return "", false
	}
	var b strings.Builder
	for _, ref := range u.Externs {
		fmt.Fprintf(&b, "%s\t0%d\n", ref.Name, ref.Addr)
	}
	return b.String(), true
}

// WriteAll writes the `.ob` file unconditionally and the `.ent`/`.ext`
// files only when they have content, under basePath (no extension) + the
// standard suffixes. Per spec.md §7.2, callers must only invoke this after
// a run with no diagnostics.
func WriteAll(basePath string, u *pipeline.Unit) error {
	if err := os.WriteFile(basePath+".ob", []byte(Object(u)), 0644); err != nil {
		return fmt.Errorf("writing object file: %w", err)
	}

	if body, ok := Entries(u); ok {
		if err := os.WriteFile(basePath+".ent", []byte(body), 0644); err != nil {
			return fmt.Errorf("writing entries file: %w", err)
		}
	}

	if body, ok := Externals(u); ok {
		if err := os.WriteFile(basePath+".ext", []byte(body), 0644); err != nil {
			return fmt.Errorf("writing externals file: %w", err)
		}
	}

	return nil
}
