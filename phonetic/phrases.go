package phonetic

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

//go:embed phrases.txt
var builtinPhrases string

// PhraseTable maps words to the tone3 syllables of their contextual reading.
type PhraseTable struct {
	words  map[string][]string
	maxLen int
}

// Phrases returns a fresh copy of the built-in phrase table.
func Phrases() *PhraseTable {
	t := &PhraseTable{words: make(map[string][]string)}
	if err := t.LoadReader(strings.NewReader(builtinPhrases)); err != nil {
		panic(err)
	}
	return t
}

// Load adds the phrases of the file at path, replacing known words.
func (t *PhraseTable) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := t.LoadReader(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadReader reads "<word> <syllable>..." lines. Blank lines and lines
// starting with # are skipped; each word needs one syllable per character.
func (t *PhraseTable) LoadReader(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		word, syllables := fields[0], fields[1:]
		n := utf8.RuneCountInString(word)
		if n != len(syllables) {
			return fmt.Errorf("line %d: %q has %d characters but %d syllables", line, word, n, len(syllables))
		}
		t.words[word] = syllables
		if n > t.maxLen {
			t.maxLen = n
		}
	}
	return scanner.Err()
}

// Len returns the number of phrases.
func (t *PhraseTable) Len() int {
	return len(t.words)
}
