package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticktask", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if cfg.DefaultView != "matrix" || cfg.WeekStartsOn != 1 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.DBPath != filepath.Join(filepath.Dir(path), DefaultDBName) {
		t.Errorf("db_path = %q, want next to the config file", cfg.DBPath)
	}
	if cfg.Keys.Quit == "" || cfg.Keys.Add == "" {
		t.Error("default keymap incomplete")
	}
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
db_path = "/tmp/custom.db"
default_view = "list"
week_start_on = 0

[keys]
quit = "x"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" || cfg.DefaultView != "list" || cfg.WeekStartsOn != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Keys.Quit != "x" {
		t.Errorf("quit key = %q, want override", cfg.Keys.Quit)
	}
}

func TestLoadOrCreateSanitizesBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
default_view = "kanban"
week_start_on = 9
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.DefaultView != "matrix" {
		t.Errorf("default_view = %q, want fallback to matrix", cfg.DefaultView)
	}
	if cfg.WeekStartsOn != 1 {
		t.Errorf("week_start_on = %d, want fallback to Monday", cfg.WeekStartsOn)
	}
	if cfg.DBPath == "" {
		t.Error("db_path not defaulted")
	}
}
