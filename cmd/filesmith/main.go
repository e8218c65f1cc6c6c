package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/kvit-s/filesmith/internal/config"
	"github.com/kvit-s/filesmith/internal/guard"
	"github.com/kvit-s/filesmith/internal/ignore"
	"github.com/kvit-s/filesmith/internal/logging"
	"github.com/kvit-s/filesmith/internal/readtrack"
	"github.com/kvit-s/filesmith/internal/selfcheck"
	"github.com/kvit-s/filesmith/internal/server"
	"github.com/kvit-s/filesmith/internal/session"
	"github.com/kvit-s/filesmith/internal/tools"
	"github.com/kvit-s/filesmith/internal/workspace"
)

// Version info set by ldflags at build time
var (
	version    = "dev"
	commitHash = "dev"
	commitDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (empty for defaults)")
	workspaceRoot := flag.String("workspace", "", "override workspace root")
	logFile := flag.String("log", "", "log file path (empty to disable)")
	runSelfcheck := flag.Bool("selfcheck", false, "run startup diagnostics and exit")
	showVersion := flag.Bool("version", false, "show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s-%s-%s\n", version, commitDate, commitHash)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *workspaceRoot != "" {
		cfg.Workspace.Root = *workspaceRoot
	}
	if *logFile != "" {
		cfg.Log.Path = *logFile
	}
	if cfg.Server.Version == "dev" {
		cfg.Server.Version = version
	}

	if *runSelfcheck {
		if !selfcheck.Run(cfg, os.Stdout) {
			os.Exit(1)
		}
		return
	}

	// stdout belongs to the protocol; everything human goes to stderr
	// or the log file.
	logger, err := logging.New(cfg.Log.Path, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logger.Close()

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
		logger.Error("loading .gitignore", err)
		ignoreMatcher = ignore.Parse("")
	}

	tracker := readtrack.NewTracker()
	if cfg.WatchExternal() {
		watcher, err := readtrack.NewWatcher(tracker, logger)
		if err != nil {
			logger.Error("starting file watcher", err)
		} else {
			defer watcher.Close()
		}
	}

	sessions := session.NewStore(cfg.SessionTTL())

	registry := tools.SetupRegistry(tools.SetupConfig{
		Cfg:      cfg,
		Guard:    g,
		Tracker:  tracker,
		Sessions: sessions,
		Ignore:   ignoreMatcher,
		Logger:   logger,
	})

	logger.Info("server starting",
		zap.String("version", version),
		zap.String("workspace", cfg.Workspace.Root),
		zap.Int("tools", len(registry.Names())),
	)

	srv := server.New(cfg.Server.Name, cfg.Server.Version, registry, logger, os.Stdin, os.Stdout)
	if err := srv.Serve(context.Background()); err != nil {
		logger.Error("server stopped", err)
		os.Exit(1)
	}
}
