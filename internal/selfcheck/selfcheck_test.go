package selfcheck

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/kvit-s/filesmith/internal/config"
)

func TestRunAllPass(t *testing.T) {
	color.NoColor = true
	cfg := config.Default()
	cfg.Workspace.Root = t.TempDir()
	cfg.Log.Path = ""

	var out bytes.Buffer
	if !Run(cfg, &out) {
		t.Fatalf("expected all checks to pass:\n%s", out.String())
	}
	if strings.Contains(out.String(), "FAIL") {
		t.Errorf("output contains FAIL:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "workspace root exists") {
		t.Errorf("missing check name:\n%s", out.String())
	}
}

func TestRunMissingWorkspace(t *testing.T) {
	color.NoColor = true
	cfg := config.Default()
	cfg.Workspace.Root = "/nonexistent/filesmith-workspace"

	var out bytes.Buffer
	if Run(cfg, &out) {
		t.Fatal("expected failure for missing workspace")
	}
	if !strings.Contains(out.String(), "FAIL") {
		t.Errorf("output missing FAIL:\n%s", out.String())
	}
}
