package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typedmock/typedmock/internal/errors"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Pattern
	}{
		{
			name: "literal",
			raw:  "example.com/app/services.UserService",
			expected: Pattern{
				Kind:     PatternLiteral,
				PkgPath:  "example.com/app/services",
				TypeName: "UserService",
			},
		},
		{
			name: "shallow wildcard",
			raw:  "example.com/app/services.*",
			expected: Pattern{
				Kind:    PatternShallow,
				PkgPath: "example.com/app/services",
			},
		},
		{
			name: "recursive wildcard",
			raw:  "example.com/app.**",
			expected: Pattern{
				Kind:    PatternRecursive,
				PkgPath: "example.com/app",
			},
		},
		{
			name: "relative literal",
			raw:  "./services.UserService",
			expected: Pattern{
				Kind:     PatternLiteral,
				PkgPath:  "services",
				TypeName: "UserService",
				Relative: true,
			},
		},
		{
			name: "relative literal in module root",
			raw:  "./UserService",
			expected: Pattern{
				Kind:     PatternLiteral,
				TypeName: "UserService",
				Relative: true,
			},
		},
		{
			name: "relative recursive",
			raw:  "./internal.**",
			expected: Pattern{
				Kind:     PatternRecursive,
				PkgPath:  "internal",
				Relative: true,
			},
		},
		{
			name: "hyphenated path segment",
			raw:  "github.com/some-org/some-repo.Type",
			expected: Pattern{
				Kind:     PatternLiteral,
				PkgPath:  "github.com/some-org/some-repo",
				TypeName: "Type",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, err := ParsePattern(tt.raw)
			require.NoError(t, err)
			tt.expected.Raw = tt.raw
			assert.Equal(t, &tt.expected, pattern)
		})
	}
}

func TestParsePatternErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"bare relative prefix", "./"},
		{"bare type without package", "UserService"},
		{"wildcard before final element", "example.com/app.*/services"},
		{"double dot", "example.com/app..Type"},
		{"lone wildcard", "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePattern(tt.raw)
			require.Error(t, err)
			assert.Equal(t, errors.PatternErrorCode, errors.CodeOf(err))
		})
	}
}
