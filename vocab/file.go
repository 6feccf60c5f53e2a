package vocab

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the extension of intermediate files.
const Ext = ".txt"

// WriteFile writes words, one per line, as UTF-8 without a header.
func WriteFile(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, word := range words {
		w.WriteString(word)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile returns the words of an intermediate file in file order, skipping
// blank lines and trimming surrounding whitespace.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return words, nil
}

// UniquePath returns dir/base.txt, or dir/base_N.txt with the smallest N >= 1
// that does not exist yet. With overwrite the plain name is always used.
func UniquePath(dir, base string, overwrite bool) string {
	p := filepath.Join(dir, base+Ext)
	if overwrite {
		return p
	}
	for n := 1; exists(p); n++ {
		p = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, Ext))
	}
	return p
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
