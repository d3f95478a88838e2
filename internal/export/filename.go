// Package export writes annotation results to CSV and renders per-row plot
// images.
package export

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SafeBaseName extracts the base name of a file without extension,
// sanitized for use inside other filenames.
func SafeBaseName(path string) string {
	if path == "" {
		return "unknown_file"
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return Sanitize(name)
}

// Sanitize replaces characters that are unsafe in filenames with
// underscores, keeping letters, digits, spaces, dots, underscores, and
// hyphens, and trims trailing spaces.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.TrimRight(b.String(), " ")
}
