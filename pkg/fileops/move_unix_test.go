//go:build unix

package fileops

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"

	"github.com/moyu-x/archyve/internal"
)

func TestMove_CrossDevice(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.txt", "payload")
	writeFile(t, fs, "/dst/a.txt", "old")

	mover := NewMover(fs)
	mover.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	moves, err := mover.Move("/src/a.txt", "/dst")
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if moves[0].To != "/dst/a_1.txt" {
		t.Errorf("target = %s", moves[0].To)
	}
	if got := readFile(t, fs, "/dst/a_1.txt"); got != "payload" {
		t.Errorf("content = %q", got)
	}
	mustExist(t, fs, "/src/a.txt", false)

	children, err := afero.ReadDir(fs, "/dst")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, c := range children {
		if strings.HasSuffix(c.Name(), ".tmp") {
			t.Errorf("temporary file left behind: %s", c.Name())
		}
	}
}

func TestMove_RenameErrorIsNotRetried(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/src/a.txt", "a")

	mover := NewMover(fs)
	mover.rename = func(string, string) error { return os.ErrPermission }

	if _, err := mover.Move("/src/a.txt", "/dst/a.txt"); !errors.Is(err, internal.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
	mustExist(t, fs, "/src/a.txt", true)
}

func TestMove_NeitherFileNorDirectory(t *testing.T) {
	dir := t.TempDir()
	fifo := filepath.Join(dir, "pipe")
	if err := unix.Mkfifo(fifo, 0644); err != nil {
		t.Skipf("mkfifo not supported: %v", err)
	}

	_, err := NewMover(afero.NewOsFs()).Move(fifo, filepath.Join(dir, "out"))
	if !errors.Is(err, internal.ErrNotAFileOrDir) {
		t.Errorf("expected ErrNotAFileOrDir, got %v", err)
	}
}
