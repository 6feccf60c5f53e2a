package dictionary

import (
	_ "embed"
	"errors"
	"log/slog"
	"os"
	"strings"
)

// DefaultPath is the lexicon used when none is configured and the file exists.
const DefaultPath = "data/dictionary.txt"

//go:embed seed.txt
var seedWords string

// Seed returns a dictionary built from the embedded base word list. It covers
// everyday vocabulary only and is used when no lexicon file is available.
func Seed() *Dictionary {
	d := NewDictionary()
	_ = d.LoadReader(strings.NewReader(seedWords))
	return d
}

// Open loads the layered lexicon at paths, or DefaultPath when no path is
// given and it exists. When no layer loads, it warns and falls back to Seed.
func Open(logger *slog.Logger, paths ...string) *Dictionary {
	if logger == nil {
		logger = slog.Default()
	}
	if len(paths) == 0 {
		if _, err := os.Stat(DefaultPath); err == nil {
			paths = []string{DefaultPath}
		} else if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Cannot stat default dictionary", slog.String("path", DefaultPath), slog.String("error", err.Error()))
		}
	}

	dict, loaded := LoadLayers(logger, paths...)
	if loaded > 0 {
		return dict
	}
	seed := Seed()
	logger.Warn("No dictionary loaded, using built-in word list",
		slog.Int("words", seed.Len()),
		slog.String("hint", "words outside it are dropped; pass --dict FILE or provide "+DefaultPath))
	return seed
}
