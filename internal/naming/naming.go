// Package naming holds the canonical casing rules for generated identifiers.
// Type-like names (messages, enums, variants, services) use PascalCase and
// member-like names (fields, methods) use snake_case, regardless of how they
// are spelled in the schema.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stoewer/go-strcase"
)

// TypeName converts a schema name to type-name casing (PascalCase).
// TypeName(TypeName(x)) == TypeName(x) for every x.
func TypeName(name string) string {
	var sb strings.Builder
	for _, word := range words(name) {
		sb.WriteString(capitalize(word))
	}
	return sb.String()
}

// MemberName converts a schema name to member-name casing (snake_case)
func MemberName(name string) string {
	return strings.Join(words(name), "_")
}

// LowerCamel converts a member name to lowerCamelCase for targets that expect it
func LowerCamel(name string) string {
	ws := words(name)
	var sb strings.Builder
	for i, word := range ws {
		if i == 0 {
			sb.WriteString(word)
			continue
		}
		sb.WriteString(capitalize(word))
	}
	return sb.String()
}

// ScreamingSnake converts a name to SCREAMING_SNAKE_CASE
func ScreamingSnake(name string) string {
	return strings.ToUpper(MemberName(name))
}

// words splits name into lowercase words. Word boundaries are delimiters,
// lower-to-upper transitions, the end of an acronym ("HTTPServer") and an
// upper-case letter following a digit ("V2Thing").
func words(name string) []string {
	snake := strcase.SnakeCase(splitAfterDigits(name))
	parts := strings.Split(snake, "_")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitAfterDigits inserts "_" between a digit and a following upper-case
// ASCII letter, a boundary strcase does not detect on its own
func splitAfterDigits(name string) string {
	var sb strings.Builder
	var prev rune
	for _, r := range name {
		if prev >= '0' && prev <= '9' && r >= 'A' && r <= 'Z' {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

// IsIdentifier reports whether name is usable as an identifier in every
// supported target: ASCII letters, digits and underscores, not starting
// with a digit.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		switch {
		case r == '_', unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return strings.Trim(name, "_") != ""
}
