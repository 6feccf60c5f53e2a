package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultFrequency is assigned to dictionary lines that carry only a word.
const DefaultFrequency = 20000.0

// unknownLogProb is the smoothing penalty for words missing from the dictionary.
const unknownLogProb = -20.0

// Dictionary holds words and their frequencies/probabilities.
type Dictionary struct {
	Total  float64
	Words  map[string]float64
	MaxLen int
	Loaded bool
}

// NewDictionary creates a new empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		Words: make(map[string]float64),
	}
}

// Load loads words from a file.
// File format: word frequency (space separated)
func (d *Dictionary) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := d.LoadReader(file); err != nil {
		return fmt.Errorf("load dictionary %s: %w", path, err)
	}
	return nil
}

// LoadReader reads "word [frequency]" lines. A word that is already present
// has its frequency replaced, so later sources win.
func (d *Dictionary) LoadReader(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		freq := DefaultFrequency
		if len(parts) >= 2 {
			if f, err := strconv.ParseFloat(parts[1], 64); err == nil && f > 0 {
				freq = f
			}
		}
		d.Add(parts[0], freq)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	d.Loaded = true
	return nil
}

// Add inserts word with the given frequency, replacing any previous value.
func (d *Dictionary) Add(word string, freq float64) {
	if word == "" {
		return
	}
	if old, ok := d.Words[word]; ok {
		d.Total -= old
	}
	d.Words[word] = freq
	d.Total += freq
	if n := len([]rune(word)); n > d.MaxLen {
		d.MaxLen = n
	}
}

// Clone returns an independent copy of d.
func (d *Dictionary) Clone() *Dictionary {
	c := &Dictionary{
		Total:  d.Total,
		Words:  make(map[string]float64, len(d.Words)),
		MaxLen: d.MaxLen,
		Loaded: d.Loaded,
	}
	for w, f := range d.Words {
		c.Words[w] = f
	}
	return c
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	return len(d.Words)
}

// Frequency returns the frequency of a word.
func (d *Dictionary) Frequency(word string) (float64, bool) {
	val, ok := d.Words[word]
	return val, ok
}

// Contains checks if a word exists in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.Words[word]
	return ok
}

// LogProbability returns the log probability of a word.
// basic smoothing: if total is 0, return extremely small number.
func (d *Dictionary) LogProbability(word string) float64 {
	if d.Total <= 0 {
		return unknownLogProb
	}
	freq, ok := d.Words[word]
	if !ok {
		return unknownLogProb
	}
	return math.Log(freq / d.Total)
}

// LoadLayers loads the given dictionary files in order (core, base, user...).
// The last one loaded wins frequency and existence. Missing or unreadable
// layers are logged and skipped; the returned count is the number of layers loaded.
func LoadLayers(logger *slog.Logger, paths ...string) (*Dictionary, int) {
	if logger == nil {
		logger = slog.Default()
	}
	dict := NewDictionary()
	loaded := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			logger.Warn("dictionary layer not found", slog.String("path", p))
			continue
		}
		if err := dict.Load(p); err != nil {
			logger.Warn("dictionary layer failed to load", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		loaded++
		logger.Debug("loaded dictionary layer", slog.String("path", p), slog.Int("words", dict.Len()))
	}
	return dict, loaded
}
