package inspector

import "regexp"

// Placeholder replaces any signature fragment that would not be legal Go
// outside its defining package.
const Placeholder = "..."

var (
	reprPattern    = regexp.MustCompile(`<[^<>]+>`)
	defaultPattern = regexp.MustCompile(`= ([^,)]+)([,)])`)

	numberPattern = regexp.MustCompile(`^-?\d+\.?\d*$`)
	stringPattern = regexp.MustCompile("^([\"'].*[\"']|`.*`)$")
)

// Sanitize normalizes rendered signature text so it can be embedded in a
// generated file verbatim. Object reprs are collapsed to the placeholder,
// and any default-value expression that is not a recognized literal is
// replaced wholesale. Identifiers are deliberately treated as unsafe even
// when they name real package-level constants: the generated artifact
// cannot see into the defining package, so syntactic safety wins over
// fidelity.
//
// Sanitize is pure, total, and idempotent.
func Sanitize(signature string) string {
	// Nested reprs collapse inside-out; iterate to a fixpoint so one pass
	// of Sanitize fully normalizes the text.
	out := signature
	for reprPattern.MatchString(out) {
		out = reprPattern.ReplaceAllString(out, Placeholder)
	}
	return defaultPattern.ReplaceAllStringFunc(out, func(match string) string {
		groups := defaultPattern.FindStringSubmatch(match)
		value, terminator := groups[1], groups[2]
		if isSafeDefault(value) {
			return match
		}
		return "= " + Placeholder + terminator
	})
}

func isSafeDefault(value string) bool {
	switch value {
	case "true", "false", "nil", "[]", "{}", "()", Placeholder:
		return true
	}
	return numberPattern.MatchString(value) || stringPattern.MatchString(value)
}
