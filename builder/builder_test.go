package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teatak/imedict/metrics"
	"github.com/teatak/imedict/phonetic"
)

type mapTranscriber map[string]string

func (m mapTranscriber) Transcribe(word string) (string, error) {
	if p, ok := m[word]; ok {
		return p, nil
	}
	return "", phonetic.ErrNoReading
}

func writeInputs(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func newOptions(root string) Options {
	return Options{
		InputDir:   filepath.Join(root, "raw"),
		OutputDir:  filepath.Join(root, "results"),
		OutputName: "pinyin_dict.txt",
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestEntryString(t *testing.T) {
	w := 1500.0
	frac := 2.5
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"word only", Entry{Word: "中国", Pronunciation: "zhong'guo"}, "中国 zhong'guo"},
		{"weight", Entry{Word: "中国", Pronunciation: "zhong'guo", Weight: &w}, "中国 zhong'guo 1500"},
		{"fractional weight", Entry{Word: "中国", Pronunciation: "zhong'guo", Weight: &frac}, "中国 zhong'guo 2.5"},
		{"comment", Entry{Word: "中国", Pronunciation: "zhong'guo", Comment: "a.txt"}, "中国 zhong'guo a.txt"},
		{"empty pronunciation", Entry{Word: "中国"}, "中国 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.String())
		})
	}
}

func TestParsePolicyAndMissing(t *testing.T) {
	p, err := ParsePolicy("first-wins")
	require.NoError(t, err)
	assert.Equal(t, FirstWins, p)
	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, LastWins, p)
	_, err = ParsePolicy("newest")
	assert.Error(t, err)

	m, err := ParseMissing("empty")
	require.NoError(t, err)
	assert.Equal(t, EmptyMissing, m)
	_, err = ParseMissing("drop")
	assert.Error(t, err)
}

func TestBuildWithPinyin(t *testing.T) {
	root := t.TempDir()
	opts := newOptions(root)
	writeInputs(t, opts.InputDir, map[string]string{
		"news_merged_segmented.txt": "美国\n中国\n",
	})

	tr, err := phonetic.New(phonetic.DefaultOptions())
	require.NoError(t, err)
	rec := metrics.New("dict")
	res, err := New(opts, tr, nil, rec).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(opts.OutputDir, "pinyin_dict.txt"), res.Output)
	assert.Equal(t, []string{"中国 zhong'guo", "美国 mei'guo"}, readLines(t, res.Output))
	assert.Equal(t, 2, res.Entries)
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.EntriesWritten))
}

func TestBuildDeterministic(t *testing.T) {
	root := t.TempDir()
	opts := newOptions(root)
	writeInputs(t, opts.InputDir, map[string]string{
		"b.txt": "天气\n北京\n",
		"a.txt": "世界\n你好\n",
	})
	tr := mapTranscriber{"天气": "tian'qi", "北京": "bei'jing", "世界": "shi'jie", "你好": "ni'hao"}

	res, err := New(opts, tr, nil, nil).Build(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(res.Output)
	require.NoError(t, err)

	res, err = New(opts, tr, nil, nil).Build(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(res.Output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "世界 shi'jie\n你好 ni'hao\n北京 bei'jing\n天气 tian'qi\n", sortCheck(t, string(first)))
}

// sortCheck asserts the lines are in byte order and returns the content.
func sortCheck(t *testing.T, content string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		assert.Less(t, strings.Fields(lines[i-1])[0], strings.Fields(lines[i])[0])
	}
	return content
}

func TestBuildNoInput(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		root := t.TempDir()
		opts := newOptions(root)
		_, err := New(opts, mapTranscriber{}, nil, nil).Build(context.Background())
		assert.ErrorIs(t, err, ErrNoInput)
		assert.NoFileExists(t, filepath.Join(opts.OutputDir, opts.OutputName))
	})

	t.Run("empty directory", func(t *testing.T) {
		root := t.TempDir()
		opts := newOptions(root)
		require.NoError(t, os.MkdirAll(filepath.Join(opts.InputDir, "nested"), 0755))
		_, err := New(opts, mapTranscriber{}, nil, nil).Build(context.Background())
		assert.ErrorIs(t, err, ErrNoInput)
		assert.NoFileExists(t, filepath.Join(opts.OutputDir, opts.OutputName))
	})
}

func TestBuildMergePolicy(t *testing.T) {
	files := map[string]string{
		"a.txt": "中国\n",
		"b.txt": "中国\n美国\n",
	}
	tr := mapTranscriber{"中国": "zhong'guo", "美国": "mei'guo"}

	tests := []struct {
		policy MergePolicy
		want   []string
	}{
		{LastWins, []string{"中国 zhong'guo b.txt", "美国 mei'guo b.txt"}},
		{FirstWins, []string{"中国 zhong'guo a.txt", "美国 mei'guo b.txt"}},
	}
	for _, tt := range tests {
		root := t.TempDir()
		opts := newOptions(root)
		opts.Policy = tt.policy
		opts.SourceComment = true
		writeInputs(t, opts.InputDir, files)

		res, err := New(opts, tr, nil, nil).Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tt.want, readLines(t, res.Output))
		assert.Equal(t, 1, res.Collisions)
	}
}

func TestBuildMissingReadings(t *testing.T) {
	files := map[string]string{"a.txt": "中国\n饕餮\n"}
	tr := mapTranscriber{"中国": "zhong'guo"}

	t.Run("skip", func(t *testing.T) {
		root := t.TempDir()
		opts := newOptions(root)
		writeInputs(t, opts.InputDir, files)
		rec := metrics.New("dict")

		res, err := New(opts, tr, nil, rec).Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"中国 zhong'guo"}, readLines(t, res.Output))
		assert.Equal(t, 1, res.Missing)
		assert.Equal(t, 1.0, testutil.ToFloat64(rec.ReadingsMissing))
	})

	t.Run("empty", func(t *testing.T) {
		root := t.TempDir()
		opts := newOptions(root)
		opts.OnMissing = EmptyMissing
		writeInputs(t, opts.InputDir, files)

		res, err := New(opts, tr, nil, nil).Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"中国 zhong'guo", "饕餮 "}, readLines(t, res.Output))
	})
}

func TestBuildWeightsAndInvalidTokens(t *testing.T) {
	root := t.TempDir()
	opts := newOptions(root)
	opts.Weight = func(word string) (float64, bool) {
		if word == "中国" {
			return 3000, true
		}
		return 0, false
	}
	writeInputs(t, opts.InputDir, map[string]string{
		"a.txt": "\uFEFF中国\nhello\n美国\n\n",
	})
	tr := mapTranscriber{"中国": "zhong'guo", "美国": "mei'guo"}

	res, err := New(opts, tr, nil, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"中国 zhong'guo 3000", "美国 mei'guo"}, readLines(t, res.Output))
	assert.Equal(t, 1, res.Invalid)
}

func TestBuildReplacesOutput(t *testing.T) {
	root := t.TempDir()
	opts := newOptions(root)
	writeInputs(t, opts.InputDir, map[string]string{"a.txt": "中国\n"})
	require.NoError(t, os.MkdirAll(opts.OutputDir, 0755))
	out := filepath.Join(opts.OutputDir, opts.OutputName)
	require.NoError(t, os.WriteFile(out, []byte("stale\n"), 0644))

	_, err := New(opts, mapTranscriber{"中国": "zhong'guo"}, nil, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"中国 zhong'guo"}, readLines(t, out))

	entries, err := os.ReadDir(opts.OutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestBuildCancelled(t *testing.T) {
	root := t.TempDir()
	opts := newOptions(root)
	writeInputs(t, opts.InputDir, map[string]string{"a.txt": "中国\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(opts, mapTranscriber{}, nil, nil).Build(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoFileExists(t, filepath.Join(opts.OutputDir, opts.OutputName))
}
