// Package optimizer mines new words from raw text so that the segmenter can
// keep out-of-vocabulary terms together.
package optimizer

import (
	"sort"

	"github.com/teatak/imedict/util"
)

// Options controls new-word discovery.
type Options struct {
	// Threshold is the minimum n-gram count for a candidate.
	Threshold int
	// MaxGram is the longest n-gram considered, in characters.
	MaxGram int
	// Ratio is the superstring/substring frequency ratio above which a
	// prefix or suffix fragment is pruned.
	Ratio float64
}

// DefaultOptions returns the discovery settings used when none are configured.
func DefaultOptions() Options {
	return Options{Threshold: 5, MaxGram: 4, Ratio: 0.9}
}

// Discover counts the 2..maxGram character n-grams inside contiguous Han runs
// of texts and returns those seen at least threshold times.
func Discover(texts []string, threshold, maxGram int) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, block := range util.HanBlocks(text) {
			runes := []rune(block)
			n := len(runes)
			if n < 2 {
				continue
			}
			for i := 0; i < n; i++ {
				for k := 2; k <= maxGram && i+k <= n; k++ {
					counts[string(runes[i:i+k])]++
				}
			}
		}
	}
	for w, c := range counts {
		if c < threshold {
			delete(counts, w)
		}
	}
	return counts
}

// Candidates runs discovery and pruning and returns the surviving words,
// most frequent first.
func Candidates(texts []string, opts Options) []Word {
	counts := Discover(texts, opts.Threshold, opts.MaxGram)
	words := make([]Word, 0, len(counts))
	for t, f := range counts {
		words = append(words, Word{Text: t, Freq: f})
	}
	words = Prune(words, opts.Ratio)
	sort.Slice(words, func(i, j int) bool {
		if words[i].Freq != words[j].Freq {
			return words[i].Freq > words[j].Freq
		}
		return words[i].Text < words[j].Text
	})
	return words
}
