//go:build unix

package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestRemove_DanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "broken")
	if err := os.Symlink(filepath.Join(dir, "gone"), link); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	failed := NewRemover(afero.NewOsFs()).Remove(link)
	if len(failed) != 0 {
		t.Fatalf("Remove() failures = %v", failed)
	}
	if _, err := os.Lstat(link); !os.IsNotExist(err) {
		t.Errorf("dangling symlink should be removed, Lstat error = %v", err)
	}
}

func TestRemove_SymlinkToDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	failed := NewRemover(afero.NewOsFs()).Remove(link)
	if len(failed) != 0 {
		t.Fatalf("Remove() failures = %v", failed)
	}
	if _, err := os.Lstat(link); !os.IsNotExist(err) {
		t.Errorf("symlink should be removed, Lstat error = %v", err)
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		t.Errorf("link target must survive, Stat error = %v", err)
	}
}
