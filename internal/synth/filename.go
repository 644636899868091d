package synth

import (
	"strings"
	"unicode"
)

// DefaultSuffix is appended to the snake_cased type name when the manifest
// does not override it.
const DefaultSuffix = "_variants.go"

// FileName derives the output file name for a marked type, e.g.
// "HTTPState" with the default suffix becomes "http_state_variants.go".
func FileName(typeName, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return snakeCase(typeName) + suffix
}

func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1]) && runes[i-1] != '_'
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && runes[i-1] != '_' && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
