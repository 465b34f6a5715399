package vault

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a relative path would escape the vault.
var ErrOutsideRoot = errors.New("path escapes vault root")

// Vault is a rooted view of the note store.
type Vault struct {
	root string
}

// New opens the vault rooted at dir. The directory must already exist.
func New(dir string) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve vault root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", abs)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute OS path of the vault root.
func (v *Vault) Root() string { return v.root }

// Abs converts a vault-relative slash path to an absolute OS path.
func (v *Vault) Abs(rel string) (string, error) {
	cleaned := path.Clean("/" + rel)
	if cleaned == "/" {
		return v.root, nil
	}
	if strings.HasPrefix(cleaned, "/..") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return filepath.Join(v.root, filepath.FromSlash(cleaned[1:])), nil
}

// Rel converts an absolute OS path inside the vault to a vault-relative
// slash path. It reports false when the path lies outside the root.
func (v *Vault) Rel(abs string) (string, bool) {
	rel, err := filepath.Rel(v.root, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	return rel, true
}

// Exists reports whether rel names an existing file or directory.
func (v *Vault) Exists(rel string) bool {
	abs, err := v.Abs(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// MkdirAll creates rel and any missing parents. Creating an existing
// directory is not an error.
func (v *Vault) MkdirAll(rel string) error {
	abs, err := v.Abs(rel)
	if err != nil {
		return err
	}
	return os.MkdirAll(abs, 0o755)
}

// ReadFile returns the contents of rel.
func (v *Vault) ReadFile(rel string) ([]byte, error) {
	abs, err := v.Abs(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

// WriteFile writes data to rel, creating parent directories as needed.
func (v *Vault) WriteFile(rel string, data []byte) error {
	abs, err := v.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	return os.WriteFile(abs, data, 0o644)
}

// Rename moves oldRel to newRel, creating the destination's parents.
func (v *Vault) Rename(oldRel, newRel string) error {
	oldAbs, err := v.Abs(oldRel)
	if err != nil {
		return err
	}
	newAbs, err := v.Abs(newRel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(newAbs), 0o755); err != nil {
		return err
	}
	return os.Rename(oldAbs, newAbs)
}

// Remove deletes the file at rel.
func (v *Vault) Remove(rel string) error {
	abs, err := v.Abs(rel)
	if err != nil {
		return err
	}
	return os.Remove(abs)
}

// Stat returns file info for rel.
func (v *Vault) Stat(rel string) (fs.FileInfo, error) {
	abs, err := v.Abs(rel)
	if err != nil {
		return nil, err
	}
	return os.Stat(abs)
}

// Import copies an external file into the vault at rel. The source is left
// untouched; the copy is verified by byte count.
func (v *Vault) Import(srcAbs, rel string) error {
	abs, err := v.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}

	info, err := os.Stat(srcAbs)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	in, err := os.Open(srcAbs)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(abs, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	written, err := io.Copy(out, in)
	if err != nil {
		_ = os.Remove(abs)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(abs)
		return err
	}
	if written != info.Size() {
		_ = os.Remove(abs)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	return nil
}

// CountWithPrefix counts regular files in dirRel whose names start with
// prefix. A missing directory counts as zero.
func (v *Vault) CountWithPrefix(dirRel, prefix string) (int, error) {
	abs, err := v.Abs(dirRel)
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			count++
		}
	}
	return count, nil
}
