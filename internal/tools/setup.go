package tools

import (
	"github.com/kvit-s/filesmith/internal/config"
	"github.com/kvit-s/filesmith/internal/edit"
	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/ignore"
	"github.com/kvit-s/filesmith/internal/logging"
	"github.com/kvit-s/filesmith/internal/readtrack"
	"github.com/kvit-s/filesmith/internal/search"
	"github.com/kvit-s/filesmith/internal/session"
)

// SetupConfig contains the dependencies needed to build the registry.
type SetupConfig struct {
	Cfg      *config.Config
	Guard    *guard.Guard
	Tracker  *readtrack.Tracker
	Sessions *session.Store
	Ignore   *ignore.Matcher
	Logger   *logging.Logger
}

// SetupRegistry wires the full toolset: the edit engine and search
// collaborators are built here and shared between the tools that use
// them.
func SetupRegistry(sc SetupConfig) *Registry {
	registry := NewRegistry()
	cfg := sc.Cfg

	engine := edit.NewEngine(sc.Guard, sc.Tracker, sc.Sessions, sc.Logger)
	finder := &search.Finder{
		Root:       sc.Guard.Root(),
		Ignore:     sc.Ignore,
		MaxResults: cfg.Tools.Find.MaxResults,
	}
	grepper := &search.Grepper{
		Finder: finder,
		Budget: cfg.Tools.Search.OutputBudget,
	}

	registry.Enable(NewReadFileTool(sc.Guard, sc.Tracker, cfg.Tools.Read.MaxBytes))
	registry.Enable(NewWriteFileTool(sc.Guard, sc.Tracker, sc.Logger))
	registry.Enable(NewReplaceTool(engine))
	registry.Enable(NewSelectMatchesTool(engine))
	registry.Enable(NewEditFileTool(engine))
	registry.Enable(NewFindFilesTool(sc.Guard, finder))
	registry.Enable(NewSearchContentTool(sc.Guard, grepper, cfg.Tools.Search.ContextLines, cfg.Tools.Search.MaxResults))
	registry.Enable(NewMoveFileTool(sc.Guard, sc.Tracker, sc.Logger))
	registry.Enable(NewCopyFileTool(sc.Guard, sc.Logger))

	for _, name := range cfg.Tools.Disabled {
		registry.Disable(name)
	}

	return registry
}
