// Package phonetic looks up the pinyin of dictionary words.
package phonetic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mozillazg/go-pinyin"
)

// ErrNoReading is returned when a character of the word has no known pinyin.
var ErrNoReading = errors.New("no pinyin reading")

// Style names accepted by ParseStyle.
const (
	StyleNormal = "normal" // zhong
	StyleTone   = "tone"   // zhōng
	StyleTone2  = "tone2"  // zho1ng
	StyleTone3  = "tone3"  // zhong1
)

// ParseStyle maps a style name to its go-pinyin constant.
func ParseStyle(name string) (int, error) {
	switch strings.ToLower(name) {
	case "", StyleNormal:
		return pinyin.Normal, nil
	case StyleTone:
		return pinyin.Tone, nil
	case StyleTone2:
		return pinyin.Tone2, nil
	case StyleTone3:
		return pinyin.Tone3, nil
	}
	return 0, fmt.Errorf("unknown pinyin style %q", name)
}

// Options configures a Transcriber.
type Options struct {
	Style string
	// Heteronym lists every reading of characters that no known phrase
	// pins down.
	Heteronym   bool
	SyllableSep string
	ReadingSep  string
	MaxReadings int
	// PhraseFile is an optional phrase-reading table layered over the
	// built-in one.
	PhraseFile string
}

// DefaultOptions returns the rendering used by input-method importers:
// toneless syllables joined by an apostrophe, alternative readings joined by
// a bar.
func DefaultOptions() Options {
	return Options{
		Style:       StyleNormal,
		Heteronym:   true,
		SyllableSep: "'",
		ReadingSep:  "|",
		MaxReadings: 4,
	}
}

// Transcriber converts words to pinyin strings. It keeps no mutable state and
// may be used from several goroutines.
type Transcriber struct {
	args    pinyin.Args
	tone3   pinyin.Args
	phrases *PhraseTable
	opts    Options
}

// New validates opts and returns a Transcriber.
func New(opts Options) (*Transcriber, error) {
	style, err := ParseStyle(opts.Style)
	if err != nil {
		return nil, err
	}
	if opts.MaxReadings < 1 {
		opts.MaxReadings = 1
	}
	phrases := Phrases()
	if opts.PhraseFile != "" {
		if err := phrases.Load(opts.PhraseFile); err != nil {
			return nil, err
		}
	}

	args := pinyin.NewArgs()
	args.Style = style
	args.Heteronym = true
	tone3 := pinyin.NewArgs()
	tone3.Style = pinyin.Tone3
	tone3.Heteronym = true
	return &Transcriber{args: args, tone3: tone3, phrases: phrases, opts: opts}, nil
}

// Transcribe returns the pronunciation field for word. Characters covered by
// a known phrase take the phrase's reading, longest phrase first. Other
// characters take their first reading, or with Heteronym all of them; the
// distinct combinations, at most MaxReadings, are joined by ReadingSep.
func (t *Transcriber) Transcribe(word string) (string, error) {
	runes := []rune(word)
	if len(runes) == 0 {
		return "", fmt.Errorf("empty word: %w", ErrNoReading)
	}

	perChar := make([][]string, 0, len(runes))
	for i := 0; i < len(runes); {
		if picked := t.phrase(runes[i:]); picked != nil {
			for _, p := range picked {
				perChar = append(perChar, []string{p})
			}
			i += len(picked)
			continue
		}
		readings := t.readings(runes[i])
		if len(readings) == 0 {
			return "", fmt.Errorf("%q in %q: %w", runes[i], word, ErrNoReading)
		}
		perChar = append(perChar, readings)
		i++
	}

	combos := combine(perChar, t.opts.MaxReadings)
	out := make([]string, len(combos))
	for i, c := range combos {
		out[i] = strings.Join(c, t.opts.SyllableSep)
	}
	return strings.Join(out, t.opts.ReadingSep), nil
}

// phrase returns the styled readings of the longest known phrase at the
// start of runes, or nil.
func (t *Transcriber) phrase(runes []rune) []string {
	n := min(t.phrases.maxLen, len(runes))
	for ; n >= 1; n-- {
		syllables, ok := t.phrases.words[string(runes[:n])]
		if !ok {
			continue
		}
		if picked := t.pick(runes[:n], syllables); picked != nil {
			return picked
		}
	}
	return nil
}

// pick maps tone3 syllables to the requested style through the character's
// own reading list, so that every style is rendered by go-pinyin.
func (t *Transcriber) pick(runes []rune, syllables []string) []string {
	out := make([]string, len(runes))
	for i, r := range runes {
		numbered := pinyin.SinglePinyin(r, t.tone3)
		styled := pinyin.SinglePinyin(r, t.args)
		idx := -1
		for j, s := range numbered {
			if s == syllables[i] {
				idx = j
				break
			}
		}
		if idx < 0 || idx >= len(styled) {
			return nil
		}
		out[i] = styled[idx]
	}
	return out
}

// readings returns the distinct readings of r, first reading only unless
// heteronyms are enabled.
func (t *Transcriber) readings(r rune) []string {
	res := pinyin.SinglePinyin(r, t.args)
	if len(res) == 0 {
		return nil
	}
	if !t.opts.Heteronym {
		return res[:1]
	}
	seen := make(map[string]bool, len(res))
	var out []string
	for _, p := range res {
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// combine enumerates the cartesian product of per-character readings in
// order, stopping after limit combinations.
func combine(perChar [][]string, limit int) [][]string {
	combos := [][]string{{}}
	for _, options := range perChar {
		var next [][]string
		for _, prefix := range combos {
			for _, o := range options {
				c := make([]string, len(prefix), len(prefix)+1)
				copy(c, prefix)
				next = append(next, append(c, o))
				if len(next) == limit {
					break
				}
			}
			if len(next) == limit {
				break
			}
		}
		combos = next
	}
	return combos
}
