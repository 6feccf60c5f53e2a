package crf

import (
	"math"
)

// Decode performs Viterbi decoding to find the best tag sequence.
func (m *Model) Decode(runes []rune) []Tag {
	n := len(runes)
	if n == 0 {
		return []Tag{}
	}

	// dp[i][tag] = max score ending at i with tag
	dp := make([][numTags]float64, n)
	// path[i][tag] = previous tag that gave max score
	path := make([][numTags]Tag, n)

	// No explicit start state: position 0 is scored by emission alone.
	for tag := Tag(0); tag < numTags; tag++ {
		dp[0][tag] = m.emission(runes, 0, tag)
	}

	for i := 1; i < n; i++ {
		for curr := Tag(0); curr < numTags; curr++ {
			maxScore := -math.MaxFloat64
			bestPrev := TagB
			emission := m.emission(runes, i, curr)
			for prev := Tag(0); prev < numTags; prev++ {
				score := dp[i-1][prev] + m.Trans[prev][curr] + emission
				if score > maxScore {
					maxScore = score
					bestPrev = prev
				}
			}
			dp[i][curr] = maxScore
			path[i][curr] = bestPrev
		}
	}

	maxScore := -math.MaxFloat64
	bestEnd := TagS
	for tag := Tag(0); tag < numTags; tag++ {
		if dp[n-1][tag] > maxScore {
			maxScore = dp[n-1][tag]
			bestEnd = tag
		}
	}

	tags := make([]Tag, n)
	tags[n-1] = bestEnd
	for i := n - 1; i > 0; i-- {
		tags[i-1] = path[i][tags[i]]
	}
	return tags
}

func (m *Model) emission(runes []rune, idx int, tag Tag) float64 {
	score := 0.0
	for _, feat := range ExtractFeatures(runes, idx) {
		if weights, ok := m.Feats[feat]; ok {
			score += weights[tag]
		}
	}
	return score
}
