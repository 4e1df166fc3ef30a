// Package cnpj mirrors the tax identifier predicate used by the invalid tax id query.
package cnpj

import (
	"strings"
	"unicode/utf8"
)

// Length is the size of a normalized CNPJ.
const Length = 14

var punctuation = strings.NewReplacer(".", "", "/", "", "-", "")

// Normalize trims surrounding spaces (as SQL TRIM does) and strips '.', '/' and '-'.
// Any other character is kept.
func Normalize(doc string) string {
	return punctuation.Replace(strings.Trim(doc, " "))
}

// IsValid reports whether the normalized document has exactly Length characters.
// Only the length is checked, never the check digits.
func IsValid(doc string) bool {
	return utf8.RuneCountInString(Normalize(doc)) == Length
}
