package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typedmock/typedmock/internal/diag"
	"github.com/typedmock/typedmock/internal/errors"
	"github.com/typedmock/typedmock/internal/models"
)

func projectDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("testdata", "project"))
	require.NoError(t, err)
	return dir
}

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	return NewGenerator(projectDir(t), diag.NewQuiet())
}

func TestRunGeneratesArtifacts(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "stubs")

	summary, err := newGenerator(t).Run(Options{
		Targets:   []string{"demo.Svc"},
		OutputDir: outDir,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"demo.Svc"}, summary.ResolvedTargets)
	assert.Zero(t, summary.SkippedTargets)
	assert.ElementsMatch(t, []string{
		filepath.Join(outDir, "svc_mock.go"),
		filepath.Join(outDir, "runtime.go"),
		filepath.Join(outDir, "exports.go"),
	}, summary.GeneratedFiles)

	content, err := os.ReadFile(filepath.Join(outDir, "svc_mock.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "type SvcAPI interface {")
	assert.Contains(t, string(content), "Ping(ctx context.Context) error")
}

func TestRunRelativePattern(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "stubs")

	summary, err := newGenerator(t).Run(Options{
		Targets:   []string{"./Svc"},
		OutputDir: outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo.Svc"}, summary.ResolvedTargets)
}

func TestRunSkipsUnresolvablePatterns(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "stubs")

	summary, err := newGenerator(t).Run(Options{
		Targets:   []string{"demo.Svc", "demo.Missing"},
		OutputDir: outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo.Svc"}, summary.ResolvedTargets)
	assert.Len(t, summary.GeneratedFiles, 3)

	runtime, err := os.ReadFile(filepath.Join(outDir, "runtime.go"))
	require.NoError(t, err)
	assert.Contains(t, string(runtime), "SvcStub")
	assert.NotContains(t, string(runtime), "Missing")
}

func TestRunNoTargets(t *testing.T) {
	_, err := newGenerator(t).Run(Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ResolutionErrorCode, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "no targets configured")
}

func TestRunEveryTargetExcluded(t *testing.T) {
	_, err := newGenerator(t).Run(Options{
		Targets:        []string{"demo.Svc"},
		ExcludeTargets: []string{"demo.Svc"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every configured target is excluded")
}

func TestRunExcludesResolvedIdentifiers(t *testing.T) {
	// A wildcard pattern survives target filtering, but the identifiers it
	// resolves to are still subject to exclusion.
	_, err := newGenerator(t).Run(Options{
		Targets:        []string{"demo.*"},
		ExcludeTargets: []string{"demo.Svc", "demo.Store"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no patterns resolved to a type")
}

func TestRunWildcardExcludeRemovesWholePackage(t *testing.T) {
	_, err := newGenerator(t).Run(Options{
		Targets:        []string{"demo.*"},
		ExcludeTargets: []string{"demo.**"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no patterns resolved to a type")
}

func TestRunRelativeExclude(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "stubs")

	summary, err := newGenerator(t).Run(Options{
		Targets:        []string{"demo.*"},
		ExcludeTargets: []string{"./Store"},
		OutputDir:      outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo.Svc"}, summary.ResolvedTargets)

	_, statErr := os.Stat(filepath.Join(outDir, "store_mock.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunUnknownBackend(t *testing.T) {
	_, err := newGenerator(t).Run(Options{
		Targets: []string{"demo.Svc"},
		Backend: "psychic",
	})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestRunReflectBackendIsLibraryOnly(t *testing.T) {
	_, err := newGenerator(t).Run(Options{
		Targets: []string{"demo.Svc"},
		Backend: "reflect",
	})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestRunExplicitConfig(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "stubs")
	configPath := filepath.Join(t.TempDir(), "typedmock.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`targets = ["demo.Svc"]`), 0o644))

	summary, err := newGenerator(t).Run(Options{
		ConfigPath: configPath,
		OutputDir:  outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo.Svc"}, summary.ResolvedTargets)
}

func TestRunMissingExplicitConfig(t *testing.T) {
	_, err := newGenerator(t).Run(Options{
		ConfigPath: filepath.Join(t.TempDir(), "nope.toml"),
		Targets:    []string{"demo.Svc"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

// failingBackend errors for every fqn in its deny set.
type failingBackend struct {
	deny map[string]bool
}

func (f *failingBackend) Name() string { return "failing" }

func (f *failingBackend) Inspect(fqn string, includePrivate bool) (*models.ClassDescriptor, error) {
	if f.deny[fqn] {
		return nil, errors.NewInspectionError(fqn, "induced failure", nil)
	}
	pkgPath, name := models.SplitQualifiedName(fqn)
	return &models.ClassDescriptor{
		SimpleName:         name,
		FullyQualifiedName: fqn,
		PkgPath:            pkgPath,
		PkgName:            filepath.Base(pkgPath),
	}, nil
}

func TestRunCountsInspectionFailures(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "stubs")
	g := newGenerator(t)
	g.SetBackend(&failingBackend{deny: map[string]bool{"demo.Svc": true}})

	// Svc resolves but fails inspection; nothing survives, so emission
	// produces no artifacts and the run fails.
	_, err := g.Run(Options{
		Targets:   []string{"demo.Svc"},
		OutputDir: outDir,
	})
	require.Error(t, err)
	assert.True(t, errors.IsEmissionError(err))
}

func TestRunPartialInspectionFailure(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "stubs")
	g := newGenerator(t)
	g.SetBackend(&failingBackend{deny: map[string]bool{"demo.Store": true}})

	summary, err := g.Run(Options{
		Targets:   []string{"demo.*"},
		OutputDir: outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"demo.Store", "demo.Svc"}, summary.ResolvedTargets)
	assert.Equal(t, 1, summary.SkippedTargets)
	assert.ElementsMatch(t, []string{
		filepath.Join(outDir, "svc_mock.go"),
		filepath.Join(outDir, "runtime.go"),
		filepath.Join(outDir, "exports.go"),
	}, summary.GeneratedFiles)
}
