package resolver

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typedmock/typedmock/internal/diag"
)

func sampleDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("testdata", "sample"))
	require.NoError(t, err)
	return dir
}

func TestResolveLiteral(t *testing.T) {
	r := New(sampleDir(t), diag.NewQuiet())

	resolved := r.Resolve([]string{"sample.P"})
	assert.Equal(t, []string{"sample.P"}, resolved)
}

func TestResolveRelativeLiteral(t *testing.T) {
	r := New(sampleDir(t), diag.NewQuiet())

	resolved := r.Resolve([]string{"./m.M"})
	assert.Equal(t, []string{"sample/m.M"}, resolved)
}

func TestResolveShallowWildcard(t *testing.T) {
	r := New(sampleDir(t), diag.NewQuiet())

	// Borrowed is an alias re-export and hidden is unexported; only P is
	// defined in the root package itself.
	resolved := r.Resolve([]string{"sample.*"})
	assert.Equal(t, []string{"sample.P"}, resolved)
}

func TestResolveRecursiveWildcard(t *testing.T) {
	r := New(sampleDir(t), diag.NewQuiet())

	resolved := r.Resolve([]string{"sample.**"})
	assert.Equal(t, []string{"sample.P", "sample/m.M", "sample/sub/deep.D"}, resolved)
}

func TestResolveDeduplicates(t *testing.T) {
	r := New(sampleDir(t), diag.NewQuiet())

	resolved := r.Resolve([]string{"sample.P", "sample.*", "./m.M", "sample/m.M"})
	assert.Equal(t, []string{"sample.P", "sample/m.M"}, resolved)
}

func TestResolveSkipsBadPatternsWithWarning(t *testing.T) {
	var errOut bytes.Buffer
	d := diag.NewWithWriters(diag.LevelWarn, &errOut, &errOut)
	r := New(sampleDir(t), d)

	resolved := r.Resolve([]string{"", "sample.Helper", "sample.P"})
	assert.Equal(t, []string{"sample.P"}, resolved)
	assert.Contains(t, errOut.String(), "[WARN]")
	assert.Contains(t, errOut.String(), "Helper")
}

func TestResolveMissingSymbol(t *testing.T) {
	r := New(sampleDir(t), diag.NewQuiet())

	assert.Empty(t, r.Resolve([]string{"sample.NoSuchType"}))
}

func TestResolveRelativeOutsideModule(t *testing.T) {
	r := New(t.TempDir(), diag.NewQuiet())

	assert.Empty(t, r.Resolve([]string{"./services.UserService"}))
}

func TestExcluded(t *testing.T) {
	r := New(sampleDir(t), diag.NewQuiet())

	tests := []struct {
		name     string
		fqn      string
		excludes []string
		expected bool
	}{
		{"exact fqn", "sample/m.M", []string{"sample/m.M"}, true},
		{"relative literal", "sample/m.M", []string{"./m.M"}, true},
		{"shallow wildcard matches package", "sample/m.M", []string{"sample/m.*"}, true},
		{"shallow wildcard ignores subpackages", "sample/sub/deep.D", []string{"sample.*"}, false},
		{"recursive wildcard matches root", "sample.P", []string{"sample.**"}, true},
		{"recursive wildcard matches subpackage", "sample/sub/deep.D", []string{"sample.**"}, true},
		{"relative recursive", "sample/sub/deep.D", []string{"./sub.**"}, true},
		{"different package", "sample/m.M", []string{"sample.*"}, false},
		{"different type", "sample.P", []string{"sample.Q"}, false},
		{"unparsable entry only matches exactly", "sample.P", []string{"*"}, false},
		{"empty excludes", "sample.P", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Excluded(tt.fqn, tt.excludes))
		})
	}
}

func TestResolveCachesModulePath(t *testing.T) {
	r := New(sampleDir(t), diag.NewQuiet())

	first, err := r.moduleBase()
	require.NoError(t, err)
	second, err := r.moduleBase()
	require.NoError(t, err)
	assert.Equal(t, "sample", first)
	assert.Equal(t, second, first)
}
