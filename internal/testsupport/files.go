package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"satchel/internal/vault"
)

// WriteNote writes a note body at the given vault-relative path.
func WriteNote(t testing.TB, v *vault.Vault, rel, content string) {
	t.Helper()
	if err := v.WriteFile(rel, []byte(content)); err != nil {
		t.Fatalf("write note %s: %v", rel, err)
	}
}

// ReadNote reads a note body back.
func ReadNote(t testing.TB, v *vault.Vault, rel string) string {
	t.Helper()
	data, err := v.ReadFile(rel)
	if err != nil {
		t.Fatalf("read note %s: %v", rel, err)
	}
	return string(data)
}

// ExternalFile creates a file outside the vault and returns its path.
func ExternalFile(t testing.TB, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write external file %s: %v", name, err)
	}
	return path
}
