// Package config loads the server configuration from YAML with
// sensible defaults, so a bare binary works without a config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"server"`

	Workspace struct {
		Root string `yaml:"root"`
		// Pointer so an absent key defaults to true while an explicit
		// false still turns the watcher off.
		WatchExternalChanges *bool  `yaml:"watch_external_changes"`
		LockFile             string `yaml:"lock_file"`
	} `yaml:"workspace"`

	Tools ToolsConfig `yaml:"tools"`

	Session struct {
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"session"`

	Log struct {
		Path        string `yaml:"path"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// ToolsConfig holds per-tool limits.
type ToolsConfig struct {
	// Disabled names tools to remove from the registry after setup.
	Disabled []string `yaml:"disabled"`

	Read   ReadToolConfig   `yaml:"read"`
	Search SearchToolConfig `yaml:"search"`
	Find   FindToolConfig   `yaml:"find"`
}

// ReadToolConfig limits the read tool.
type ReadToolConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// SearchToolConfig limits the content search tool.
type SearchToolConfig struct {
	MaxResults   int `yaml:"max_results"`
	OutputBudget int `yaml:"output_budget"`
	ContextLines int `yaml:"context_lines"`
}

// FindToolConfig limits the file find tool.
type FindToolConfig struct {
	MaxResults int `yaml:"max_results"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path and fills unset fields with defaults. An empty path
// returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = "filesmith"
	}
	if c.Server.Version == "" {
		c.Server.Version = "dev"
	}

	// Environment beats the file for the workspace root.
	if env := os.Getenv("FILESMITH_WORKSPACE"); env != "" {
		c.Workspace.Root = env
	}
	if c.Workspace.Root == "" {
		if wd, err := os.Getwd(); err == nil {
			c.Workspace.Root = wd
		}
	}
	if abs, err := filepath.Abs(c.Workspace.Root); err == nil {
		c.Workspace.Root = abs
	}
	if c.Workspace.LockFile == "" {
		c.Workspace.LockFile = ".filesmith.lock"
	}
	if c.Workspace.WatchExternalChanges == nil {
		watch := true
		c.Workspace.WatchExternalChanges = &watch
	}

	if c.Tools.Read.MaxBytes == 0 {
		c.Tools.Read.MaxBytes = 10 * 1024 * 1024
	}
	if c.Tools.Search.MaxResults == 0 {
		c.Tools.Search.MaxResults = 100
	}
	if c.Tools.Search.OutputBudget == 0 {
		c.Tools.Search.OutputBudget = 20000
	}
	if c.Tools.Search.ContextLines == 0 {
		c.Tools.Search.ContextLines = 2
	}
	if c.Tools.Find.MaxResults == 0 {
		c.Tools.Find.MaxResults = 1000
	}

	if c.Session.TTLSeconds == 0 {
		c.Session.TTLSeconds = 300
	}
}

// WatchExternal reports whether the external-change watcher should run.
func (c *Config) WatchExternal() bool {
	return c.Workspace.WatchExternalChanges == nil || *c.Workspace.WatchExternalChanges
}

// SessionTTL converts the configured lifetime to a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLSeconds) * time.Second
}

// LockPath resolves the lock file relative to the workspace root.
func (c *Config) LockPath() string {
	if filepath.IsAbs(c.Workspace.LockFile) {
		return c.Workspace.LockFile
	}
	return filepath.Join(c.Workspace.Root, c.Workspace.LockFile)
}
