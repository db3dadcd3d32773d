// Package cli coordinates the generation pipeline: configuration, target
// resolution, inspection, and emission.
package cli

import (
	"fmt"

	"github.com/typedmock/typedmock/internal/config"
	"github.com/typedmock/typedmock/internal/diag"
	"github.com/typedmock/typedmock/internal/emitter"
	"github.com/typedmock/typedmock/internal/errors"
	"github.com/typedmock/typedmock/internal/inspector"
	"github.com/typedmock/typedmock/internal/models"
	"github.com/typedmock/typedmock/internal/resolver"
)

// Options carries the explicitly-provided command-line values.
type Options struct {
	Targets        []string
	ExcludeTargets []string
	OutputDir      string
	IncludePrivate bool
	ConfigPath     string
	Backend        string
}

// Summary reports what one generation run produced.
type Summary struct {
	ResolvedTargets []string
	GeneratedFiles  []string
	SkippedTargets  int
}

// Generator runs the generation pipeline against one working directory.
type Generator struct {
	workDir string
	diag    *diag.System
	backend inspector.Backend // test seam; nil selects the configured backend
}

// NewGenerator creates a pipeline runner rooted at workDir.
func NewGenerator(workDir string, d *diag.System) *Generator {
	return &Generator{workDir: workDir, diag: d}
}

// SetBackend overrides backend selection, used by tests and embedders that
// drive the pipeline with a pre-registered reflect backend.
func (g *Generator) SetBackend(b inspector.Backend) {
	g.backend = b
}

// Run executes one generation pass. Errors it returns are fatal for the
// invocation; recoverable resolution and inspection failures are reported
// as warnings and excluded from the output.
func (g *Generator) Run(opts Options) (*Summary, error) {
	cfg, err := config.Load(opts.ConfigPath, g.workDir)
	if err != nil {
		return nil, err
	}
	merged := cfg.Merge(config.Overrides{
		Targets:        opts.Targets,
		OutputDir:      opts.OutputDir,
		IncludePrivate: opts.IncludePrivate,
		ExcludeTargets: opts.ExcludeTargets,
		Backend:        opts.Backend,
	})

	patterns := merged.FilteredTargets()
	if len(patterns) == 0 {
		if len(merged.Targets) == 0 {
			return nil, errors.NewResolutionError("", "no targets configured", nil)
		}
		return nil, errors.NewResolutionError("", "every configured target is excluded", nil)
	}

	backend, err := g.selectBackend(merged)
	if err != nil {
		return nil, err
	}

	g.diag.Verbose("resolving %d pattern(s)", len(patterns))
	res := resolver.New(g.workDir, g.diag)
	resolved := g.applyExclusions(res, res.Resolve(patterns), merged.ExcludeTargets)
	if len(resolved) == 0 {
		return nil, errors.NewResolutionError("", "no patterns resolved to a type", nil)
	}

	summary := &Summary{ResolvedTargets: resolved}
	var descriptors []*models.ClassDescriptor
	for _, fqn := range resolved {
		descriptor, err := backend.Inspect(fqn, merged.IncludePrivate)
		if err != nil {
			g.diag.Warn("excluding %s: %v", fqn, err)
			summary.SkippedTargets++
			continue
		}
		g.diag.Verbose("inspected %s: %d member(s)", fqn, len(descriptor.Members))
		descriptors = append(descriptors, descriptor)
	}

	artifacts, err := emitter.New(g.diag).Emit(descriptors, merged.OutputDir)
	if err != nil {
		return nil, err
	}
	if len(artifacts.Files) == 0 {
		return nil, errors.NewEmissionError(merged.OutputDir, "no artifacts were produced", nil)
	}

	summary.GeneratedFiles = artifacts.Files
	g.diag.Success("generated %d file(s) in %s", len(artifacts.Files), merged.OutputDir)
	for _, file := range artifacts.Files {
		g.diag.List("%s", file)
	}
	return summary, nil
}

// selectBackend honors the test seam, then the configured backend name.
// The reflect backend needs live types registered by an embedding program,
// so the CLI only ever drives the static backend.
func (g *Generator) selectBackend(cfg config.Config) (inspector.Backend, error) {
	if g.backend != nil {
		return g.backend, nil
	}
	switch cfg.Backend {
	case "", "static":
		return inspector.NewStaticBackend(g.workDir, g.diag), nil
	case "reflect":
		return nil, errors.NewConfigError("", "the reflect backend requires registered types and is only available through the library API", nil)
	default:
		return nil, errors.NewConfigError("", fmt.Sprintf("unknown backend %q", cfg.Backend), nil)
	}
}

// applyExclusions drops resolved identifiers selected by an exclude entry,
// matched as exact fully-qualified names or as target patterns, so both
// single wildcard matches and whole excluded packages can be carved out of
// a broader target.
func (g *Generator) applyExclusions(r *resolver.Resolver, resolved, excludes []string) []string {
	if len(excludes) == 0 {
		return resolved
	}
	kept := resolved[:0]
	for _, fqn := range resolved {
		if r.Excluded(fqn, excludes) {
			g.diag.Verbose("excluding %s by configuration", fqn)
			continue
		}
		kept = append(kept, fqn)
	}
	return kept
}
