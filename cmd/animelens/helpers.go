package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/microcosm-cc/bluemonday"
)

var imageURLPattern = regexp.MustCompile(`^https?://.+\.(png|jpe?g|gif|webp|bmp)(\?.*)?$`)

// isURL reports whether the scan source should be treated as a URL
// rather than a local file path.
func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// isProbablyImageURL checks for a direct image link by extension.
func isProbablyImageURL(source string) bool {
	return imageURLPattern.MatchString(strings.ToLower(source))
}

// formatSegment renders a scene segment as m:ss-m:ss.
func formatSegment(from, to float64) string {
	return fmt.Sprintf("%s - %s", formatSeconds(from), formatSeconds(to))
}

func formatSeconds(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

var synopsisPolicy = bluemonday.StrictPolicy()

// sanitizeSynopsis strips the raw HTML markup catalog descriptions
// carry so they render cleanly in a terminal.
func sanitizeSynopsis(value string) string {
	value = strings.ReplaceAll(value, "<br>", " ")
	value = synopsisPolicy.Sanitize(value)
	return strings.Join(strings.Fields(value), " ")
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ellipsize shortens a table cell to at most limit runes.
func ellipsize(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
