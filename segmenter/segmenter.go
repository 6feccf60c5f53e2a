// Package segmenter splits Chinese text into words using a frequency
// dictionary, optionally assisted by a CRF model for unknown words.
package segmenter

import (
	"fmt"
	"math"
	"strings"

	"github.com/teatak/imedict/crf"
	"github.com/teatak/imedict/dictionary"
)

// Mode defines the segmentation mode.
type Mode int

const (
	ModeDAG    Mode = iota // ModeDAG uses dictionary-based DAG segmentation.
	ModeCRF                // ModeCRF uses pure CRF model-based segmentation.
	ModeHybrid             // ModeHybrid uses a hybrid approach: Dictionary-first, then CRF for OOV.
)

func (m Mode) String() string {
	switch m {
	case ModeCRF:
		return "crf"
	case ModeHybrid:
		return "hybrid"
	default:
		return "dag"
	}
}

// ParseMode resolves a mode name ("dag", "crf", "hybrid").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dag":
		return ModeDAG, nil
	case "crf":
		return ModeCRF, nil
	case "hybrid":
		return ModeHybrid, nil
	}
	return ModeDAG, fmt.Errorf("unknown segmentation mode %q", s)
}

// Segmenter handles the text segmentation. It is not modified by Cut or
// CutSearch and may be shared between goroutines.
type Segmenter struct {
	Dict     *dictionary.Dictionary
	CRFModel *crf.Model
}

// NewSegmenter creates a new segmenter with the given dictionary.
func NewSegmenter(dict *dictionary.Dictionary) *Segmenter {
	if dict == nil {
		dict = dictionary.NewDictionary()
	}
	return &Segmenter{Dict: dict}
}

// Cut segments the text into a slice of strings using the specified mode (defaults to ModeDAG).
func (s *Segmenter) Cut(text string, modes ...Mode) []string {
	mode := ModeDAG
	if len(modes) > 0 {
		mode = modes[0]
	}

	blocks := splitTextToBlocks([]rune(text))
	var result []string
	for _, block := range blocks {
		if !block.isWord || block.isPureAlphaNum {
			result = append(result, string(block.runes))
			continue
		}
		switch {
		case mode == ModeCRF && s.CRFModel != nil:
			result = append(result, s.cutCRF(block.runes)...)
		case mode == ModeHybrid && s.CRFModel != nil:
			result = append(result, s.cutHybrid(block.runes)...)
		default:
			result = append(result, s.cutDAG(block.runes)...)
		}
	}
	return result
}

// cutDAG picks the maximum probability path through the word graph.
func (s *Segmenter) cutDAG(runes []rune) []string {
	n := len(runes)
	if n == 0 {
		return []string{}
	}

	// dag[i] contains a list of end indices (inclusive) for words starting at i
	dag := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if j-i+1 > s.Dict.MaxLen {
				break
			}
			if s.Dict.Contains(string(runes[i : j+1])) {
				dag[i] = append(dag[i], j)
			}
		}

		// Match a whole alphanumeric run as one candidate so "25" or "PKU" stay intact.
		if isAlphaNum(runes[i]) {
			j := i
			for j < n && isAlphaNum(runes[j]) {
				j++
			}
			found := false
			for _, end := range dag[i] {
				if end == j-1 {
					found = true
					break
				}
			}
			if !found {
				dag[i] = append(dag[i], j-1)
			}
		}

		if len(dag[i]) == 0 {
			dag[i] = append(dag[i], i)
		}
	}

	type routeNode struct {
		prob float64
		end  int
	}
	route := make([]routeNode, n+1)

	for i := n - 1; i >= 0; i-- {
		bestProb := -math.MaxFloat64
		bestEnd := i
		for _, end := range dag[i] {
			prob := s.Dict.LogProbability(string(runes[i:end+1])) + route[end+1].prob
			if prob > bestProb {
				bestProb = prob
				bestEnd = end
			}
		}
		route[i] = routeNode{prob: bestProb, end: bestEnd}
	}

	var result []string
	for idx := 0; idx < n; {
		end := route[idx].end
		result = append(result, string(runes[idx:end+1]))
		idx = end + 1
	}
	return result
}

// CutSearch segments the text into a slice of strings, including fine-grained sub-words, using the specified mode (defaults to ModeDAG).
// Sub-words of a word come before the word itself.
func (s *Segmenter) CutSearch(text string, modes ...Mode) []string {
	result := []string{}
	for _, word := range s.Cut(text, modes...) {
		s.addSubWords(word, &result)
		result = append(result, word)
	}
	return result
}

func (s *Segmenter) addSubWords(word string, result *[]string) {
	runes := []rune(word)
	if len(runes) <= 2 {
		return
	}

	// Alphanumeric words are never split into sub-words (PKU must not yield P/K/U).
	isPure := true
	for _, r := range runes {
		if !isAlphaNum(r) {
			isPure = false
			break
		}
	}
	if isPure {
		return
	}

	for i := 0; i < len(runes); i++ {
		for j := i + 1; j <= len(runes); j++ {
			subWord := string(runes[i:j])
			if subWord != word && s.Dict.Contains(subWord) {
				*result = append(*result, subWord)
			}
		}
	}
}

// cutHybrid trusts multi-character dictionary words and hands the runs of
// single characters between them to the CRF model.
func (s *Segmenter) cutHybrid(runes []rune) []string {
	var result []string
	var buf []rune

	flush := func() {
		if len(buf) == 0 {
			return
		}
		result = append(result, s.decodeCRFBlock(buf)...)
		buf = nil
	}

	for _, token := range s.cutDAG(runes) {
		r := []rune(token)
		if len(r) > 1 {
			flush()
			result = append(result, token)
		} else {
			buf = append(buf, r...)
		}
	}
	flush()
	return result
}

func (s *Segmenter) cutCRF(runes []rune) []string {
	return s.decodeCRFBlock(runes)
}

func (s *Segmenter) decodeCRFBlock(runes []rune) []string {
	if len(runes) == 0 {
		return nil
	}
	tags := s.CRFModel.Decode(runes)
	var res []string
	var buf []rune
	for i, tag := range tags {
		char := runes[i]
		switch tag {
		case crf.TagB:
			if len(buf) > 0 {
				res = append(res, string(buf))
				buf = nil
			}
			buf = append(buf, char)
		case crf.TagM:
			buf = append(buf, char)
		case crf.TagE:
			buf = append(buf, char)
			res = append(res, string(buf))
			buf = nil
		case crf.TagS:
			if len(buf) > 0 {
				res = append(res, string(buf))
				buf = nil
			}
			res = append(res, string(char))
		}
	}
	if len(buf) > 0 {
		res = append(res, string(buf))
	}
	return res
}
