package scan

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"animelens/internal/trace"
)

// DisplayTitle derives a readable title for a match without catalog
// metadata by cleaning up the matched source filename.
func DisplayTitle(match trace.Match) string {
	base := strings.TrimSpace(filepath.Base(match.Filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == '[' || r == ']':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Title"
	}
	return cases.Title(language.Und).String(title)
}
