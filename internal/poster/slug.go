package poster

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Slug derives a filesystem-safe file name stem from a title. The title
// is transliterated to ASCII first so Cyrillic titles produce portable
// names, then every character outside [A-Za-z0-9._-] becomes an
// underscore.
func Slug(title string) string {
	ascii := unidecode.Unidecode(title)

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
