package vault_test

import (
	"os"
	"path/filepath"
	"testing"

	"satchel/internal/vault"
)

func newVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestNewRejectsMissingRoot(t *testing.T) {
	if _, err := vault.New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestAbsRejectsEscape(t *testing.T) {
	v := newVault(t)
	if _, err := v.Abs("../outside.md"); err == nil {
		t.Fatal("expected escape to be rejected")
	}
	if _, err := v.Abs("notes/../../outside.md"); err == nil {
		t.Fatal("expected nested escape to be rejected")
	}
	if _, err := v.Abs("notes/../today.md"); err != nil {
		t.Fatalf("in-root traversal should be fine: %v", err)
	}
}

func TestRelRoundTrip(t *testing.T) {
	v := newVault(t)
	abs, err := v.Abs("daily/2024-03-05.md")
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}
	rel, ok := v.Rel(abs)
	if !ok || rel != "daily/2024-03-05.md" {
		t.Fatalf("Rel(%q) = %q, %v", abs, rel, ok)
	}
	if _, ok := v.Rel(filepath.Dir(v.Root())); ok {
		t.Fatal("paths outside the root must not resolve")
	}
}

func TestWriteReadRename(t *testing.T) {
	v := newVault(t)
	if err := v.WriteFile("inbox/photo.png", []byte("png")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !v.Exists("inbox/photo.png") {
		t.Fatal("written file should exist")
	}

	if err := v.Rename("inbox/photo.png", "daily/images/2024-03-05-image-01.png"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if v.Exists("inbox/photo.png") {
		t.Fatal("source should be gone after rename")
	}
	data, err := v.ReadFile("daily/images/2024-03-05-image-01.png")
	if err != nil || string(data) != "png" {
		t.Fatalf("ReadFile after rename: %q %v", data, err)
	}
}

func TestImportCopiesExternalFile(t *testing.T) {
	v := newVault(t)
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "dropped.pdf")
	if err := os.WriteFile(src, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := v.Import(src, "inbox/dropped.pdf"); err != nil {
		t.Fatalf("Import: %v", err)
	}
	data, err := v.ReadFile("inbox/dropped.pdf")
	if err != nil || string(data) != "pdf bytes" {
		t.Fatalf("imported content mismatch: %q %v", data, err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source must be left untouched: %v", err)
	}
}

func TestCountWithPrefix(t *testing.T) {
	v := newVault(t)
	for _, name := range []string{
		"daily/images/2024-03-05-image-01.png",
		"daily/images/2024-03-05-image-02.png",
		"daily/images/2024-03-06-image-01.png",
	} {
		if err := v.WriteFile(name, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	n, err := v.CountWithPrefix("daily/images", "2024-03-05-image")
	if err != nil {
		t.Fatalf("CountWithPrefix: %v", err)
	}
	if n != 2 {
		t.Fatalf("CountWithPrefix = %d, want 2", n)
	}

	n, err = v.CountWithPrefix("daily/videos", "anything")
	if err != nil || n != 0 {
		t.Fatalf("missing directory should count zero: n=%d err=%v", n, err)
	}
}
