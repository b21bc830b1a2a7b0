package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/halevi-tools/asm14/lexer"
	"github.com/halevi-tools/asm14/pipeline"
)

func TestLoadMissingFileIsNoOp(t *testing.T) {
	origLine := lexer.MaxLineLen
	if err := Load(filepath.Join(t.TempDir(), "asm14.toml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lexer.MaxLineLen != origLine {
		t.Errorf("MaxLineLen changed to %d on a missing file", lexer.MaxLineLen)
	}
}

func TestLoadOverridesLimits(t *testing.T) {
	origLine, origLabel, origMem := lexer.MaxLineLen, lexer.MaxLabelLen, pipeline.MaxMemory
	t.Cleanup(func() {
		lexer.MaxLineLen = origLine
		lexer.MaxLabelLen = origLabel
		pipeline.MaxMemory = origMem
	})

	path := filepath.Join(t.TempDir(), "asm14.toml")
	body := "max_line_len = 120\nmax_label_len = 63\nmax_memory = 8000\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lexer.MaxLineLen != 120 {
		t.Errorf("MaxLineLen = %d, want 120", lexer.MaxLineLen)
	}
	if lexer.MaxLabelLen != 63 {
		t.Errorf("MaxLabelLen = %d, want 63", lexer.MaxLabelLen)
	}
	if pipeline.MaxMemory != 8000 {
		t.Errorf("MaxMemory = %d, want 8000", pipeline.MaxMemory)
	}
}

func TestLoadZeroFieldsLeaveDefaults(t *testing.T) {
	origLine := lexer.MaxLineLen
	t.Cleanup(func() { lexer.MaxLineLen = origLine })

	path := filepath.Join(t.TempDir(), "asm14.toml")
	if err := os.WriteFile(path, []byte("max_label_len = 50\n"), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lexer.MaxLineLen != origLine {
		t.Errorf("MaxLineLen = %d, want unchanged default %d", lexer.MaxLineLen, origLine)
	}
}
