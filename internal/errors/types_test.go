package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseErrorMessage(t *testing.T) {
	err := NewResolutionError("./services.*", "no packages matched", nil)
	assert.Equal(t, "ResolutionError: ./services.*: no packages matched", err.Error())

	bare := NewEmissionError("", "no artifacts were produced", nil)
	assert.Equal(t, "EmissionError: no artifacts were produced", bare.Error())
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := NewEmissionError("out/runtime.go", "cannot write artifact", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ConfigErrorCode, CodeOf(NewConfigError("x.toml", "bad", nil)))
	assert.Equal(t, PatternErrorCode, CodeOf(NewPatternError("*", "bad", nil)))
	assert.Equal(t, UnknownErrorCode, CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, UnknownErrorCode, CodeOf(nil))

	wrapped := fmt.Errorf("outer: %w", NewInspectionError("a.B", "gone", nil))
	assert.Equal(t, InspectionErrorCode, CodeOf(wrapped))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsConfigError(NewConfigError("", "bad", nil)))
	assert.False(t, IsConfigError(NewPatternError("", "bad", nil)))
	assert.True(t, IsEmissionError(NewEmissionError("", "bad", nil)))
	assert.False(t, IsEmissionError(fmt.Errorf("plain")))
}

func TestErrorCodeStrings(t *testing.T) {
	assert.Equal(t, "ConfigError", ConfigErrorCode.String())
	assert.Equal(t, "PatternError", PatternErrorCode.String())
	assert.Equal(t, "ResolutionError", ResolutionErrorCode.String())
	assert.Equal(t, "InspectionError", InspectionErrorCode.String())
	assert.Equal(t, "EmissionError", EmissionErrorCode.String())
	assert.Equal(t, "UnknownError", UnknownErrorCode.String())
}
