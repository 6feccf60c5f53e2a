// Package extract reduces structured documents to their natural-language text
// so that markup never reaches the segmenter.
package extract

import (
	"path/filepath"
	"sort"
	"strings"
)

// StripFunc removes format-specific syntax from a document.
type StripFunc func(text string) string

var strippers = map[string]StripFunc{
	".txt":  Plain,
	".md":   Markdown,
	".csv":  CSV,
	".json": JSON,
	".xml":  XML,
	".html": HTML,
	".htm":  HTML,
}

// Supported reports whether the file extension of path is on the allow-list.
func Supported(path string) bool {
	_, ok := strippers[ext(path)]
	return ok
}

// Extensions returns the allow-listed extensions, sorted.
func Extensions() []string {
	out := make([]string, 0, len(strippers))
	for e := range strippers {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Strip cleans text according to the extension of path. Unsupported
// extensions are returned unchanged.
func Strip(path, text string) string {
	if fn, ok := strippers[ext(path)]; ok {
		return fn(text)
	}
	return text
}

// Plain returns text unchanged.
func Plain(text string) string {
	return text
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
