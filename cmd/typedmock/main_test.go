package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFlag(t *testing.T) {
	var l listFlag
	require.NoError(t, l.Set("./a.X,./b.*"))
	require.NoError(t, l.Set(" ./c.Y , "))
	require.NoError(t, l.Set(""))

	assert.Equal(t, listFlag{"./a.X", "./b.*", "./c.Y"}, l)
	assert.Equal(t, "./a.X,./b.*,./c.Y", l.String())
}

func TestRunWithoutTargetsFails(t *testing.T) {
	assert.Equal(t, 1, run([]string{"--quiet"}))
}

func TestRunRejectsUnknownFlags(t *testing.T) {
	assert.Equal(t, 1, run([]string{"--definitely-not-a-flag"}))
}

func TestRunRejectsUnknownBackend(t *testing.T) {
	assert.Equal(t, 1, run([]string{"--quiet", "--targets", "demo.Svc", "--backend", "psychic"}))
}

func TestRunGeneratesForLiteralTarget(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "stubs")

	code := run([]string{
		"--quiet",
		"--targets", "github.com/typedmock/typedmock/internal/fixture.Clock",
		"--output-dir", outDir,
	})
	require.Equal(t, 0, code)

	for _, name := range []string{"clock_mock.go", "runtime.go", "exports.go"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}
