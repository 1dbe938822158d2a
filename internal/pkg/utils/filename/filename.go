// Package filename normalizes user-supplied file names before they are stored
// as asset display names or folded into S3 object keys.
package filename

import (
	"path"
	"strings"
	"unicode"
)

var transliterations = map[rune]string{
	'å': "a", 'ä': "a", 'á': "a", 'à': "a", 'â': "a", 'ã': "a",
	'ö': "o", 'ó': "o", 'ò': "o", 'ô': "o", 'õ': "o", 'ø': "o",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
	'ú': "u", 'ù': "u", 'û': "u", 'ü': "u",
	'ñ': "n", 'ç': "c", 'ß': "ss", 'æ': "ae",
}

// Sanitize reduces name to ASCII letters, digits, dots, dashes and
// underscores. Accented letters are transliterated, anything else becomes an
// underscore, and runs of underscores collapse to one. The extension survives
// untouched apart from lowercasing.
func Sanitize(name string) string {
	name = strings.TrimSpace(path.Base(name))
	if name == "" || name == "." {
		return "file"
	}

	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		r = unicode.ToLower(r)
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if t, ok := transliterations[r]; ok {
				b.WriteString(t)
				lastUnderscore = false
				continue
			}
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "._-")
	if out == "" {
		return "file"
	}
	return out
}

// Ext returns the lowercased extension of name, including the dot, or "" when
// there is none.
func Ext(name string) string {
	return strings.ToLower(path.Ext(name))
}
