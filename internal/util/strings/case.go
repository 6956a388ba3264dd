package strings

import (
	"strings"
	"unicode"
)

// ToPascalCase converts a schema name into PascalCase.
// Separators ('-', '.', '_', whitespace) are dropped and the following rune is upper-cased:
// "string-primitive" -> "StringPrimitive", "Patient.contact" -> "PatientContact".
func ToPascalCase(s string) string {
	var result strings.Builder
	upperNext := true

	for _, r := range s {
		if isSeparator(r) {
			upperNext = true
			continue
		}
		if upperNext {
			result.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// IsIdentifier reports whether s is usable as a class or namespace segment:
// a letter or underscore followed by letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

// IsNamespace reports whether every sep-delimited segment of ns is an identifier.
// Leading and trailing separators are not allowed.
func IsNamespace(ns, sep string) bool {
	if ns == "" || sep == "" {
		return false
	}
	for _, segment := range strings.Split(ns, sep) {
		if !IsIdentifier(segment) {
			return false
		}
	}
	return true
}

// JoinNamespace joins non-empty segments with sep, trimming stray separators from each segment.
func JoinNamespace(sep string, segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(strings.TrimSpace(s), sep)
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func isSeparator(r rune) bool {
	return r == '-' || r == '.' || r == '_' || unicode.IsSpace(r)
}
