package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `server:
  name: "filesmith-test"
  version: "1.2.3"

workspace:
  root: "` + tmpDir + `"
  watch_external_changes: true

tools:
  read:
    max_bytes: 4096
  search:
    max_results: 50
    context_lines: 1
  find:
    max_results: 10

session:
  ttl_seconds: 60

log:
  path: "/tmp/filesmith.log"
  development: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Name != "filesmith-test" {
		t.Errorf("Server.Name = %q, want %q", cfg.Server.Name, "filesmith-test")
	}
	if cfg.Workspace.Root != tmpDir {
		t.Errorf("Workspace.Root = %q, want %q", cfg.Workspace.Root, tmpDir)
	}
	if !cfg.WatchExternal() {
		t.Error("WatchExternal() = false, want true")
	}
	if cfg.Tools.Read.MaxBytes != 4096 {
		t.Errorf("Read.MaxBytes = %d, want 4096", cfg.Tools.Read.MaxBytes)
	}
	if cfg.Tools.Search.MaxResults != 50 {
		t.Errorf("Search.MaxResults = %d, want 50", cfg.Tools.Search.MaxResults)
	}
	if cfg.Tools.Search.ContextLines != 1 {
		t.Errorf("Search.ContextLines = %d, want 1", cfg.Tools.Search.ContextLines)
	}
	if cfg.SessionTTL() != time.Minute {
		t.Errorf("SessionTTL() = %v, want 1m", cfg.SessionTTL())
	}
	if !cfg.Log.Development {
		t.Error("Log.Development = false, want true")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "minimal.yaml")
	if err := os.WriteFile(configPath, []byte("workspace:\n  root: "+tmpDir+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Name != "filesmith" {
		t.Errorf("Server.Name = %q, want default filesmith", cfg.Server.Name)
	}
	if cfg.Tools.Read.MaxBytes != 10*1024*1024 {
		t.Errorf("Read.MaxBytes = %d, want 10MB default", cfg.Tools.Read.MaxBytes)
	}
	if cfg.Tools.Search.OutputBudget != 20000 {
		t.Errorf("Search.OutputBudget = %d, want 20000", cfg.Tools.Search.OutputBudget)
	}
	if cfg.Session.TTLSeconds != 300 {
		t.Errorf("Session.TTLSeconds = %d, want 300", cfg.Session.TTLSeconds)
	}
	if cfg.Workspace.LockFile != ".filesmith.lock" {
		t.Errorf("LockFile = %q, want .filesmith.lock", cfg.Workspace.LockFile)
	}
	if !cfg.WatchExternal() {
		t.Error("WatchExternal() = false, want true when the key is absent")
	}
}

func TestWatchExternalDefaultsOn(t *testing.T) {
	cfg := Default()
	if !cfg.WatchExternal() {
		t.Error("Default().WatchExternal() = false, want true")
	}
}

func TestWatchExternalExplicitFalse(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "no-watch.yaml")
	content := "workspace:\n  root: " + tmpDir + "\n  watch_external_changes: false\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WatchExternal() {
		t.Error("WatchExternal() = true, want false when explicitly disabled")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Server.Name != "filesmith" {
		t.Errorf("Server.Name = %q, want filesmith", cfg.Server.Name)
	}
	if cfg.Workspace.Root == "" {
		t.Error("Workspace.Root is empty, want working directory")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(configPath, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestWorkspaceEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FILESMITH_WORKSPACE", tmpDir)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workspace.Root != tmpDir {
		t.Errorf("Workspace.Root = %q, want env override %q", cfg.Workspace.Root, tmpDir)
	}
}

func TestLockPath(t *testing.T) {
	cfg := Default()
	cfg.Workspace.Root = "/work"
	cfg.Workspace.LockFile = ".filesmith.lock"
	if got := cfg.LockPath(); got != filepath.Join("/work", ".filesmith.lock") {
		t.Errorf("LockPath() = %q", got)
	}

	cfg.Workspace.LockFile = "/var/lock/fs.lock"
	if got := cfg.LockPath(); got != "/var/lock/fs.lock" {
		t.Errorf("LockPath() absolute = %q", got)
	}
}
