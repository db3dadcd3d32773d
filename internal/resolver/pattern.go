package resolver

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/typedmock/typedmock/internal/errors"
)

// PatternKind classifies a target pattern by its suffix.
type PatternKind int

const (
	// PatternLiteral names exactly one type: "import/path.TypeName"
	PatternLiteral PatternKind = iota
	// PatternShallow selects every type defined in one package: "import/path.*"
	PatternShallow
	// PatternRecursive selects every type defined in a package tree: "import/path.**"
	PatternRecursive
)

// Pattern is a parsed target pattern.
type Pattern struct {
	Raw      string
	Kind     PatternKind
	PkgPath  string // import path, possibly still relative ("./services")
	TypeName string // set for literal patterns only
	Relative bool   // true when the pattern started with "./"
}

// patternAST is the participle grammar for a target pattern: slash-separated
// parts, each a dot-separated identifier chain, optionally ending in a
// wildcard selector.
type patternAST struct {
	Parts []partAST `parser:"@@ ('/' @@)*"`
}

type partAST struct {
	Names []string `parser:"@Ident ('.' @Ident)*"`
	Wild  string   `parser:"('.' @('*' '*'?))?"`
}

var patternParser = participle.MustBuild[patternAST](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ident", Pattern: `[a-zA-Z0-9_\-~]+`},
		{Name: "Dot", Pattern: `\.`},
		{Name: "Slash", Pattern: `/`},
		{Name: "Star", Pattern: `\*`},
	})),
	participle.UseLookahead(2),
)

// ParsePattern parses a textual target pattern into its kind, package path,
// and (for literals) type name.
func ParsePattern(raw string) (*Pattern, error) {
	text := raw
	relative := false
	if strings.HasPrefix(text, "./") {
		relative = true
		text = strings.TrimPrefix(text, "./")
	}
	if text == "" {
		return nil, errors.NewPatternError(raw, "empty pattern", nil)
	}

	ast, err := patternParser.ParseString("", text)
	if err != nil {
		return nil, errors.NewPatternError(raw, "malformed pattern", err)
	}

	// A wildcard selector is only meaningful on the final part.
	for _, part := range ast.Parts[:len(ast.Parts)-1] {
		if part.Wild != "" {
			return nil, errors.NewPatternError(raw, "wildcard must be the final path element", nil)
		}
	}

	last := ast.Parts[len(ast.Parts)-1]
	pattern := &Pattern{Raw: raw, Relative: relative}

	switch last.Wild {
	case "**":
		pattern.Kind = PatternRecursive
		pattern.PkgPath = joinParts(ast.Parts, last.Names)
	case "*":
		pattern.Kind = PatternShallow
		pattern.PkgPath = joinParts(ast.Parts, last.Names)
	default:
		// Literal: the text after the last dot is the type name.
		if len(last.Names) < 2 && !relative {
			return nil, errors.NewPatternError(raw, "literal pattern must name a package and a type", nil)
		}
		if len(last.Names) < 1 {
			return nil, errors.NewPatternError(raw, "literal pattern must name a type", nil)
		}
		pattern.Kind = PatternLiteral
		pattern.TypeName = last.Names[len(last.Names)-1]
		pattern.PkgPath = joinParts(ast.Parts, last.Names[:len(last.Names)-1])
	}

	if pattern.PkgPath == "" && !relative {
		return nil, errors.NewPatternError(raw, "pattern has no package path", nil)
	}
	return pattern, nil
}

func joinParts(parts []partAST, lastNames []string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts[:len(parts)-1] {
		segments = append(segments, strings.Join(part.Names, "."))
	}
	if len(lastNames) > 0 {
		segments = append(segments, strings.Join(lastNames, "."))
	}
	return strings.Join(segments, "/")
}
