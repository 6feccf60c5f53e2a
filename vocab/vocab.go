// Package vocab holds extracted vocabulary and reads and writes the
// intermediate one-word-per-line files.
package vocab

import (
	"sort"
	"unicode/utf8"

	"github.com/teatak/imedict/util"
)

// DefaultMinRunes rejects single characters, which are rarely useful as
// dictionary entries on their own.
const DefaultMinRunes = 2

// Set is a set of distinct vocabulary tokens.
type Set map[string]struct{}

// Add inserts w and reports whether it was new.
func (s Set) Add(w string) bool {
	if _, ok := s[w]; ok {
		return false
	}
	s[w] = struct{}{}
	return true
}

// Union adds every word of other to s.
func (s Set) Union(other Set) {
	for w := range other {
		s[w] = struct{}{}
	}
}

// Len returns the number of words.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the words in code point order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Filter decides which segmenter tokens are kept as vocabulary.
type Filter struct {
	MinRunes int
}

// Keep reports whether token consists only of Chinese characters and is at
// least MinRunes long.
func (f Filter) Keep(token string) bool {
	min := f.MinRunes
	if min < 1 {
		min = 1
	}
	return utf8.RuneCountInString(token) >= min && util.IsChineseWord(token)
}

// Collect returns the distinct kept tokens.
func (f Filter) Collect(tokens []string) Set {
	s := make(Set)
	for _, t := range tokens {
		if f.Keep(t) {
			s.Add(t)
		}
	}
	return s
}
