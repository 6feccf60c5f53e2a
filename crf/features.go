package crf

const boundary = "_BOS_"

// ExtractFeatures generates the unigram feature strings for the character at idx:
// U00..U04 cover the window x[i-2]..x[i+2].
func ExtractFeatures(runes []rune, idx int) []string {
	at := func(offset int) string {
		pos := idx + offset
		if pos < 0 || pos >= len(runes) {
			return boundary
		}
		return string(runes[pos])
	}
	return []string{
		"U00:" + at(-2),
		"U01:" + at(-1),
		"U02:" + at(0),
		"U03:" + at(1),
		"U04:" + at(2),
	}
}
