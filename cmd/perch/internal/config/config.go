// Package config reads the optional perch.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/perch/pkg/geometry"
	"github.com/go-drift/perch/pkg/reconcile"
)

// FileName is the project configuration file looked up in the project root.
const FileName = "perch.yaml"

// Defaults applied when perch.yaml leaves a value unset.
const (
	DefaultAssets    = "assets"
	DefaultLogLevel  = "info"
	DefaultDebugAddr = "127.0.0.1:7373"
	DefaultWidth     = 800
	DefaultHeight    = 600
)

// Config represents the optional perch.yaml configuration.
type Config struct {
	Project  ProjectConfig  `yaml:"project"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Assets   string         `yaml:"assets,omitempty"`
	Log      LogConfig      `yaml:"log"`
	Debug    DebugConfig    `yaml:"debug"`
}

// ProjectConfig contains project metadata.
type ProjectConfig struct {
	Name string `yaml:"name,omitempty"`
}

// PipelineConfig contains runtime settings.
type PipelineConfig struct {
	Orphans  string         `yaml:"orphans,omitempty"`
	Viewport ViewportConfig `yaml:"viewport"`
}

// ViewportConfig is the default viewport for scenes that do not set one.
type ViewportConfig struct {
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// DebugConfig contains inspection server settings.
type DebugConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	Name       string
	Orphans    reconcile.OrphanPolicy
	Viewport   geometry.Size
	AssetsDir  string
	LogLevel   string
	DebugAddr  string
}

// LoadOptional reads perch.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads perch.yaml (if present) from dir and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(cfg.Project.Name)
	if name == "" {
		name = defaultName(modulePath, dir)
	}

	orphans, err := ParseOrphans(cfg.Pipeline.Orphans)
	if err != nil {
		return nil, err
	}

	viewport := geometry.Size{Width: cfg.Pipeline.Viewport.Width, Height: cfg.Pipeline.Viewport.Height}
	if viewport.Width <= 0 {
		viewport.Width = DefaultWidth
	}
	if viewport.Height <= 0 {
		viewport.Height = DefaultHeight
	}

	assets := strings.TrimSpace(cfg.Assets)
	if assets == "" {
		assets = DefaultAssets
	}
	if !filepath.IsAbs(assets) {
		assets = filepath.Join(dir, assets)
	}

	level := strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if level == "" {
		level = DefaultLogLevel
	}
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log.level %q", cfg.Log.Level)
	}

	addr := strings.TrimSpace(cfg.Debug.Addr)
	if addr == "" {
		addr = DefaultDebugAddr
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		Name:       name,
		Orphans:    orphans,
		Viewport:   viewport,
		AssetsDir:  assets,
		LogLevel:   level,
		DebugAddr:  addr,
	}, nil
}

// ParseOrphans maps "sweep" (the default) or "retain" to an orphan policy.
func ParseOrphans(s string) (reconcile.OrphanPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sweep":
		return reconcile.OrphanSweep, nil
	case "retain":
		return reconcile.OrphanRetain, nil
	default:
		return 0, fmt.Errorf("invalid pipeline.orphans %q (want sweep or retain)", s)
	}
}

// FindProjectRoot walks up from start to the nearest directory holding
// perch.yaml or go.mod. It returns start itself when neither is found.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Abs(start)
		}
		dir = parent
	}
}

// modulePath returns the module path from dir/go.mod, or "" without one.
func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		if prefix, _, ok := module.SplitPathVersion(modulePath); ok {
			parts := strings.Split(prefix, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "perch"
	}
	return base
}
