package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Hash.Algorithm != "xxhash" {
		t.Errorf("Hash.Algorithm = %q, want xxhash", cfg.Hash.Algorithm)
	}
	if !cfg.Scanner.IncludeHidden {
		t.Error("Scanner.IncludeHidden should default to true")
	}
	if cfg.Performance.Workers != 1 {
		t.Errorf("Performance.Workers = %d, want 1", cfg.Performance.Workers)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Dedup.Mode != "report" {
		t.Errorf("Dedup.Mode = %q, want report", cfg.Dedup.Mode)
	}
	if Get() != cfg {
		t.Error("Get() should return the loaded config")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "archyve.yaml")
	content := `hash:
  algorithm: sha256
scanner:
  include_hidden: false
  exclude:
    - .git
    - trash
performance:
  workers: 4
logging:
  level: debug
dedup:
  mode: move
  target_dir: /tmp/dupes
`
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Hash.Algorithm != "sha256" {
		t.Errorf("Hash.Algorithm = %q", cfg.Hash.Algorithm)
	}
	if cfg.Scanner.IncludeHidden {
		t.Error("Scanner.IncludeHidden should be false")
	}
	if !reflect.DeepEqual(cfg.Scanner.Exclude, []string{".git", "trash"}) {
		t.Errorf("Scanner.Exclude = %v", cfg.Scanner.Exclude)
	}
	if cfg.Performance.Workers != 4 {
		t.Errorf("Performance.Workers = %d", cfg.Performance.Workers)
	}
	if cfg.Dedup.Mode != "move" || cfg.Dedup.TargetDir != "/tmp/dupes" {
		t.Errorf("Dedup = %+v", cfg.Dedup)
	}
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARCHYVE_HASH_ALGORITHM", "md5")
	t.Setenv("ARCHYVE_PERFORMANCE_WORKERS", "8")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Hash.Algorithm != "md5" {
		t.Errorf("Hash.Algorithm = %q, want md5", cfg.Hash.Algorithm)
	}
	if cfg.Performance.Workers != 8 {
		t.Errorf("Performance.Workers = %d, want 8", cfg.Performance.Workers)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestLoad_HomeConfigDir(t *testing.T) {
	chdir(t, t.TempDir())
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".archyve")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("hash:\n  algorithm: md5\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Hash.Algorithm != "md5" {
		t.Errorf("Hash.Algorithm = %q, want md5 from $HOME/.archyve/config.yaml", cfg.Hash.Algorithm)
	}
}
