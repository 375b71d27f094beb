package builder

import (
	"strings"
	"unicode"
)

// NormalizeWhere trims clause and prefixes the WHERE keyword unless the
// first five characters already read "where" (any case). Only those five
// characters are checked, so "whereabouts = 1" is taken as prefixed.
func NormalizeWhere(clause string) string {
	clause = strings.TrimSpace(clause)
	if len(clause) >= 5 && strings.EqualFold(clause[:5], "where") {
		return clause
	}
	return "WHERE " + clause
}

// SanitizeIdentifier strips every character that is unsafe to interpolate
// into SQL as a table or procedure name. Letters, digits, '_', '.' and '$'
// are kept.
func SanitizeIdentifier(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '_' || r == '.' || r == '$':
			return r
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		default:
			return -1
		}
	}, name)
}
