package segmenter

import "github.com/teatak/imedict/util"

type textBlock struct {
	runes          []rune
	isWord         bool
	isPureAlphaNum bool
}

// splitTextToBlocks groups runes into alternating word (Han or alphanumeric)
// and non-word runs.
func splitTextToBlocks(runes []rune) []textBlock {
	var blocks []textBlock
	if len(runes) == 0 {
		return blocks
	}

	var current []rune
	inWord := isWordChar(runes[0])

	for _, r := range runes {
		currentIsWord := isWordChar(r)
		if currentIsWord == inWord {
			current = append(current, r)
		} else {
			blocks = append(blocks, createBlock(current, inWord))
			current = []rune{r}
			inWord = currentIsWord
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, createBlock(current, inWord))
	}
	return blocks
}

func createBlock(runes []rune, isWord bool) textBlock {
	pureAlpha := true
	for _, r := range runes {
		if !isAlphaNum(r) {
			pureAlpha = false
			break
		}
	}
	return textBlock{runes: runes, isWord: isWord, isPureAlphaNum: pureAlpha && isWord}
}

func isWordChar(r rune) bool {
	return isAlphaNum(r) || util.IsHan(r)
}

func isAlphaNum(r rune) bool {
	if r < 128 {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
	}
	return false
}
