// Package config loads the optional asm14.toml project settings file.
// It exists purely to let an experimenter try variant dialects of the
// language (longer labels, a bigger memory budget, …) without editing
// source; nothing in the core pipeline depends on it.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/halevi-tools/asm14/lexer"
	"github.com/halevi-tools/asm14/pipeline"
)

// Limits mirrors the overridable bounds from spec.md §3.1. A zero field
// means "leave the compiled-in default alone".
type Limits struct {
	MaxLineLen  int `toml:"max_line_len"`
	MaxLabelLen int `toml:"max_label_len"`
	MaxMemory   int `toml:"max_memory"`
}

// Load reads path (if it exists) and applies any non-zero limits it sets
// to the lexer/pipeline packages' overridable defaults. It is a no-op,
// returning no error, if path does not exist.
func Load(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	var limits Limits
	if _, err := toml.DecodeFile(path, &limits); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if limits.MaxLineLen > 0 {
		lexer.MaxLineLen = limits.MaxLineLen
	}
	if limits.MaxLabelLen > 0 {
		lexer.MaxLabelLen = limits.MaxLabelLen
	}
	if limits.MaxMemory > 0 {
		pipeline.MaxMemory = limits.MaxMemory
	}
	return nil
}
