package roster

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// DisplayName derives the canonical display name from an enrollment image
// filename (e.g., "john_doe.jpg" -> "JOHN DOE"). Underscores and dashes
// become spaces, runs of whitespace collapse, and the result is upper-cased.
func DisplayName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.Join(strings.Fields(name), " ")
	return strings.ToUpper(name)
}

// NormalizeName normalizes a display name for comparison (lower-case, no
// diacritics). The loader uses it to spot duplicate enrollments; it is
// never used for display.
func NormalizeName(name string) string {
	name = RemoveDiacritics(name)
	return strings.ToLower(name)
}
