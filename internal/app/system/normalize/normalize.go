// Package normalize provides canonical forms for user input.
package normalize

import "strings"

// Text returns the canonical form of an utterance: lowercased with leading
// and trailing whitespace removed. Vietnamese tone marks are kept, so every
// matcher that consumes the result is diacritic-sensitive.
func Text(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace and collapses internal runs of whitespace to a
// single space. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
