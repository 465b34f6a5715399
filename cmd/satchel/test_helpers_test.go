package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig writes a minimal valid config pointing at temp directories
// and returns its path.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	vaultRoot := filepath.Join(base, "vault")
	stateDir := filepath.Join(base, "state")
	if err := os.MkdirAll(vaultRoot, 0o755); err != nil {
		t.Fatalf("create vault root: %v", err)
	}

	content := fmt.Sprintf(`[vault]
root = %q

[daemon]
state_dir = %q
`, vaultRoot, stateDir)

	cfgPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	cmd.SetArgs(args)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}
