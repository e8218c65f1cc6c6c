// filesmith-console runs the filesmith toolset interactively against a
// workspace, for trying out tool calls without an MCP client.
package main

import (
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvit-s/filesmith/internal/config"
	"github.com/kvit-s/filesmith/internal/console"
	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/ignore"
	"github.com/kvit-s/filesmith/internal/logging"
	"github.com/kvit-s/filesmith/internal/readtrack"
	"github.com/kvit-s/filesmith/internal/session"
	"github.com/kvit-s/filesmith/internal/tools"
	"github.com/kvit-s/filesmith/internal/workspace"
)

func main() {
	configPath := flag.String("config", "", "path to config file (empty for defaults)")
	workspaceRoot := flag.String("workspace", "", "override workspace root")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *workspaceRoot != "" {
		cfg.Workspace.Root = *workspaceRoot
	}

	if info, err := os.Stat(cfg.Workspace.Root); err != nil || !info.IsDir() {
		log.Fatalf("Workspace root %q is not a directory", cfg.Workspace.Root)
	}

	lock, err := workspace.AcquireLock(cfg.LockPath())
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer lock.Release()

	g, err := guard.New(cfg.Workspace.Root)
	if err != nil {
		log.Fatalf("Failed to initialize path guard: %v", err)
	}

	ignoreMatcher, err := ignore.Load(cfg.Workspace.Root)
	if err != nil {
		ignoreMatcher = ignore.Parse("")
	}

	registry := tools.SetupRegistry(tools.SetupConfig{
		Cfg:      cfg,
		Guard:    g,
		Tracker:  readtrack.NewTracker(),
		Sessions: session.NewStore(cfg.SessionTTL()),
		Ignore:   ignoreMatcher,
		Logger:   logging.Nop(),
	})

	p := tea.NewProgram(console.New(registry, cfg.Workspace.Root), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("console error: %v", err)
	}
}
