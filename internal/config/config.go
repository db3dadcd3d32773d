// Package config loads generator settings from a typedmock.toml manifest,
// discovered by walking up from the working directory the same way the go
// tool locates go.mod.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/typedmock/typedmock/internal/errors"
)

// ManifestName is the recognized manifest filename.
const ManifestName = "typedmock.toml"

// DefaultOutputDir is used when neither the manifest nor the CLI names one.
const DefaultOutputDir = "typedmockstubs"

// Config holds the resolved generator settings.
type Config struct {
	Targets        []string `toml:"targets"`
	OutputDir      string   `toml:"output-dir"`
	IncludePrivate bool     `toml:"include-private"`
	ExcludeTargets []string `toml:"exclude-targets"`
	Backend        string   `toml:"backend"`
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{OutputDir: DefaultOutputDir, Backend: "static"}
}

// Overrides carries explicitly-provided CLI values. Nil/empty fields mean
// "not provided" and leave the manifest value in place.
type Overrides struct {
	Targets        []string
	OutputDir      string
	IncludePrivate bool
	ExcludeTargets []string
	Backend        string
}

// Merge applies CLI overrides on top of the manifest configuration.
// Provided target and output-dir values fully replace the manifest's;
// exclude lists are unioned; the include-private flag only takes effect
// when explicitly set to true.
func (c Config) Merge(o Overrides) Config {
	merged := c
	if len(o.Targets) > 0 {
		merged.Targets = o.Targets
	}
	if o.OutputDir != "" {
		merged.OutputDir = o.OutputDir
	}
	if o.IncludePrivate {
		merged.IncludePrivate = true
	}
	if o.Backend != "" {
		merged.Backend = o.Backend
	}
	merged.ExcludeTargets = unionStrings(c.ExcludeTargets, o.ExcludeTargets)
	return merged
}

// FilteredTargets returns the targets with exclusions applied, preserving
// the configured order.
func (c Config) FilteredTargets() []string {
	if len(c.ExcludeTargets) == 0 {
		return c.Targets
	}
	excluded := make(map[string]bool, len(c.ExcludeTargets))
	for _, t := range c.ExcludeTargets {
		excluded[t] = true
	}
	filtered := make([]string, 0, len(c.Targets))
	for _, t := range c.Targets {
		if !excluded[t] {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// FindManifest walks upward from startDir looking for a typedmock.toml.
// It returns the empty string when no manifest exists anywhere up the tree.
func FindManifest(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadFile parses the manifest at path. Missing files and malformed TOML
// are both configuration errors; they abort the run before any target
// resolution happens.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.NewConfigError(path, "cannot read manifest", err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.NewConfigError(path, fmt.Sprintf("invalid manifest: %v", err), err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Backend == "" {
		cfg.Backend = "static"
	}
	return cfg, nil
}

// Load resolves the configuration for a run. An explicit path must exist
// and parse; otherwise the manifest is auto-discovered from workDir, and
// defaults apply when none is found.
func Load(explicitPath, workDir string) (Config, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return Config{}, errors.NewConfigError(explicitPath, "config file does not exist", err)
		}
		return LoadFile(explicitPath)
	}
	if manifest := FindManifest(workDir); manifest != "" {
		return LoadFile(manifest)
	}
	return Default(), nil
}
