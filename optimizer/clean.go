package optimizer

import (
	"sort"
	"strings"

	"github.com/teatak/imedict/util"
)

// Word is a candidate with its corpus count.
type Word struct {
	Text string
	Freq int
}

// noisyFactor is how much more frequent the trimmed word must be before an
// extension of it is treated as noise.
const noisyFactor = 5.0

// Prune removes punctuation, prefix/suffix fragments and noisy one-character
// extensions from words. The input slice may be reordered.
func Prune(words []Word, ratio float64) []Word {
	filtered := words[:0]
	for _, w := range words {
		if w.Freq > 0 && !util.HasMark(w.Text) {
			filtered = append(filtered, w)
		}
	}
	cleaned := prunePrefixes(filtered, ratio)
	cleaned = pruneSuffixes(cleaned, ratio)
	return pruneNoisyExtensions(cleaned)
}

// pruneNoisyExtensions drops words such as "城希尔顿" when "希尔顿" is much more frequent.
func pruneNoisyExtensions(words []Word) []Word {
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w.Text] = w.Freq
	}

	var res []Word
	for _, w := range words {
		runes := []rune(w.Text)
		if len(runes) > 2 {
			if f, ok := freq[string(runes[1:])]; ok && float64(f)/float64(w.Freq) > noisyFactor {
				continue
			}
			// Legitimate endings like 市 or 站 are kept.
			if !isProtectedSuffix(runes[len(runes)-1]) {
				if f, ok := freq[string(runes[:len(runes)-1])]; ok && float64(f)/float64(w.Freq) > noisyFactor {
					continue
				}
			}
		}
		res = append(res, w)
	}
	return res
}

func isProtectedSuffix(r rune) bool {
	return strings.ContainsRune("市省区县店站路里院校园", r)
}

// prunePrefixes sorts words and drops A when the following word AB accounts
// for at least ratio of A's occurrences.
func prunePrefixes(words []Word, ratio float64) []Word {
	sort.Slice(words, func(i, j int) bool {
		return words[i].Text < words[j].Text
	})

	var res []Word
	for i, curr := range words {
		if i+1 < len(words) {
			next := words[i+1]
			if strings.HasPrefix(next.Text, curr.Text) && float64(next.Freq)/float64(curr.Freq) >= ratio {
				continue
			}
		}
		res = append(res, curr)
	}
	return res
}

func pruneSuffixes(words []Word, ratio float64) []Word {
	for i := range words {
		words[i].Text = reverse(words[i].Text)
	}
	cleaned := prunePrefixes(words, ratio)
	for i := range cleaned {
		cleaned[i].Text = reverse(cleaned[i].Text)
	}
	return cleaned
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
