package util

import "unicode"

// IsHan reports whether r is a CJK ideograph usable in a dictionary word:
// the unified block, Extension A and Extension B.
func IsHan(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF:
		return true
	case r >= 0x3400 && r <= 0x4DBF:
		return true
	case r >= 0x20000 && r <= 0x2A6DF:
		return true
	}
	return false
}

// IsChineseWord reports whether s is non-empty and made only of Han characters.
func IsChineseWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsHan(r) {
			return false
		}
	}
	return true
}

// HanBlocks splits s into maximal runs of Han characters. Everything else acts as a separator.
func HanBlocks(s string) []string {
	var blocks []string
	var current []rune
	for _, r := range s {
		if IsHan(r) {
			current = append(current, r)
			continue
		}
		if len(current) > 0 {
			blocks = append(blocks, string(current))
			current = nil
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, string(current))
	}
	return blocks
}

// IsMark reports whether r is punctuation or a symbol, including the CJK
// symbol block (U+3000 to U+303F) whose ideographic space is not IsPunct.
func IsMark(r rune) bool {
	if r >= 0x3000 && r <= 0x303F {
		return true
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// HasMark reports whether any rune of s is a mark.
func HasMark(s string) bool {
	for _, r := range s {
		if IsMark(r) {
			return true
		}
	}
	return false
}
