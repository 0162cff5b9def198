// Package config loads the chop configuration from
// ~/.config/chop/config.toml. Every field is optional, a missing file yields
// the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/chop/internal/classify"
)

// PatternsConfig overrides the built-in classification catalogues. Empty
// slices keep the defaults.
type PatternsConfig struct {
	Excludes   []string `toml:"excludes"`
	Manifests  []string `toml:"manifests"`
	CIPrefixes []string `toml:"ci_prefixes"`
	CIFiles    []string `toml:"ci_files"`
	TestDirs   []string `toml:"test_dirs"`
	DocExts    []string `toml:"doc_exts"`
	DocDirs    []string `toml:"doc_dirs"`
	ConfigExts []string `toml:"config_exts"`
}

// GateConfig holds workflow gate settings.
type GateConfig struct {
	Dir string `toml:"dir"` // workflow state directory, default ".trellis"
}

// Config holds the chop configuration.
type Config struct {
	Target       string         `toml:"target"`        // merge target branch
	BranchPrefix string         `toml:"branch_prefix"` // working branch prefix
	Exclude      []string       `toml:"exclude"`       // extra exclusion patterns
	Patterns     PatternsConfig `toml:"patterns"`
	Gate         GateConfig     `toml:"gate"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Target:       "main",
		BranchPrefix: "batch",
	}
}

// Rules builds the classification rules: the built-in catalogues, with any
// configured overrides applied and the extra exclusion patterns appended.
func (c Config) Rules() classify.Rules {
	rules := classify.DefaultRules()
	override(&rules.Excludes, c.Patterns.Excludes)
	override(&rules.Manifests, c.Patterns.Manifests)
	override(&rules.CIPrefixes, c.Patterns.CIPrefixes)
	override(&rules.CIFiles, c.Patterns.CIFiles)
	override(&rules.TestDirs, c.Patterns.TestDirs)
	override(&rules.DocExts, c.Patterns.DocExts)
	override(&rules.DocDirs, c.Patterns.DocDirs)
	override(&rules.ConfigExts, c.Patterns.ConfigExts)
	return rules.WithExcludes(c.Exclude...)
}

func override(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chop", "config.toml"), nil
}

// Load reads the config from ~/.config/chop/config.toml. Returns Default()
// when the file does not exist; errors only when it exists but is invalid.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Target == "" {
		return Default(), errors.New("target must not be empty")
	}
	if cfg.BranchPrefix == "" {
		return Default(), errors.New("branch_prefix must not be empty")
	}
	return cfg, nil
}
