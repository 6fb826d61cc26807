package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// SQL returns syntax-highlighted SQL using terminal ANSI colors. Falls back
// to the raw text when the highlighter fails.
func SQL(src string) string {
	var buf strings.Builder
	if err := quick.Highlight(&buf, src, "sql", "terminal256", "nord"); err != nil {
		return src
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// JSON highlights a MongoDB command document
func JSON(src string) string {
	var buf strings.Builder
	if err := quick.Highlight(&buf, src, "json", "terminal256", "nord"); err != nil {
		return src
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
