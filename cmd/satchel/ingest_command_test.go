package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIngestRefusesUnsupportedFile(t *testing.T) {
	base := t.TempDir()
	vaultRoot := filepath.Join(base, "vault")
	if err := os.MkdirAll(vaultRoot, 0o755); err != nil {
		t.Fatalf("create vault root: %v", err)
	}

	content := fmt.Sprintf(`[vault]
root = %q

[daemon]
state_dir = %q

[attachments]
scenario = "all"
`, vaultRoot, filepath.Join(base, "state"))
	cfgPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := os.WriteFile(filepath.Join(vaultRoot, "plan.md"), []byte("# plan\n"), 0o644); err != nil {
		t.Fatalf("write note: %v", err)
	}
	unsupported := filepath.Join(base, "tool.exe")
	if err := os.WriteFile(unsupported, []byte("mz"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := runCLI(t, cfgPath, "ingest", "plan.md", unsupported)
	if err == nil {
		t.Fatal("expected the unsupported file to be refused")
	}
	if !strings.Contains(err.Error(), "refused") {
		t.Fatalf("refusals should be labeled as such: %v", err)
	}
}
