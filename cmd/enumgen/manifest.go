package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// projectManifest is an optional enumgen.toml found by walking up from the
// working directory. Every key is optional; flags override manifest values.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Generate generateConfig `toml:"generate"`
	Packages packagesConfig `toml:"packages"`
}

type generateConfig struct {
	Suffix string `toml:"suffix"`
	Header string `toml:"header"`
}

type packagesConfig struct {
	Patterns []string `toml:"patterns"`
}

func findEnumgenToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "enumgen.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findEnumgenToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("generate", "suffix") {
		suffix := strings.TrimSpace(cfg.Generate.Suffix)
		if !strings.HasSuffix(suffix, ".go") {
			return projectConfig{}, fmt.Errorf("%s: [generate].suffix must end in .go", path)
		}
		cfg.Generate.Suffix = suffix
	}
	return cfg, nil
}
