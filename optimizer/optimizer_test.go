package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscover(t *testing.T) {
	got := Discover([]string{"中国你好中国", "abc 中国!"}, 2, 4)
	assert.Equal(t, map[string]int{"中国": 3}, got)
}

func TestCandidates_PrunesFragments(t *testing.T) {
	texts := []string{"长江大桥长江大桥长江大桥"}
	got := Candidates(texts, Options{Threshold: 3, MaxGram: 4, Ratio: 0.9})
	assert.Equal(t, []Word{{Text: "长江大桥", Freq: 3}}, got)
}

func TestPrune_NoisyExtensions(t *testing.T) {
	words := []Word{
		{Text: "城希尔顿", Freq: 10},
		{Text: "希尔顿", Freq: 100},
		{Text: "希尔顿店", Freq: 10},
		{Text: "希尔，", Freq: 50},
	}
	got := Prune(words, 0.9)
	texts := make([]string, 0, len(got))
	for _, w := range got {
		texts = append(texts, w.Text)
	}
	assert.ElementsMatch(t, []string{"希尔顿", "希尔顿店"}, texts)
}
