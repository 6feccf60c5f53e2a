package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/teatak/imedict/extract"
	"github.com/teatak/imedict/vocab"
)

// Collect returns the supported input files under root, sorted. A file root
// is returned as is when its extension is supported. Directories are scanned
// one level deep unless recursive is set; exclude holds doublestar patterns
// matched against slash-separated paths relative to root.
func Collect(root string, recursive bool, exclude []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if extract.Supported(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	for _, p := range exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	pattern := "*"
	if recursive {
		pattern = "**/*"
	}
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	var files []string
	for _, rel := range matches {
		if !extract.Supported(rel) || excluded(rel, exclude) {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(rel)))
	}
	sort.Strings(files)
	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// nestedExclude returns a pattern excluding the output directory dir when it
// lies inside root, so that a run never reads its own previous output. When
// dir is root itself, only files named like outputs are excluded.
func nestedExclude(root, dir string) string {
	absRoot, err1 := filepath.Abs(root)
	absDir, err2 := filepath.Abs(dir)
	if err1 != nil || err2 != nil {
		return ""
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	if rel == "." {
		return "*" + segmentedSuffix + "*" + vocab.Ext
	}
	return escapeGlob(filepath.ToSlash(rel)) + "/**"
}

// escapeGlob quotes the doublestar metacharacters of a literal path.
func escapeGlob(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
