package validator

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeFilename turns a document title into a safe file name. Spaces become underscores;
// anything other than letters, digits, dashes and underscores is dropped.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "resomate"
	}
	return b.String()
}
