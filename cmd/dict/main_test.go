package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teatak/imedict/builder"
)

func TestDictCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("raw", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("raw", "a_segmented.txt"), []byte("美国\n中国\n"), 0644))

	cmd := rootCmd()
	cmd.SetArgs([]string{"--style", "tone3"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join("results", "pinyin_dict.txt"))
	require.NoError(t, err)
	assert.Equal(t, "中国 zhong1'guo2\n美国 mei3'guo2\n", string(data))
}

func TestDictCommandWeightsAndComment(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("in", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("in", "a.txt"), []byte("中国\n"), 0644))
	require.NoError(t, os.WriteFile("lex.txt", []byte("中国 1234\n"), 0644))
	require.NoError(t, os.WriteFile("imedict.yaml", []byte("lexicon:\n  dictionaries: [lex.txt]\n"), 0644))

	cmd := rootCmd()
	cmd.SetArgs([]string{"--in", "in", "--out", "out", "--weights", "--comment", "source"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join("out", "pinyin_dict.txt"))
	require.NoError(t, err)
	assert.Equal(t, "中国 zhong'guo 1234 a.txt\n", string(data))
}

func TestDictCommandErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("raw", 0755))

	cmd := rootCmd()
	cmd.SetArgs([]string{})
	assert.ErrorIs(t, cmd.Execute(), builder.ErrNoInput)
	assert.NoFileExists(t, filepath.Join("results", "pinyin_dict.txt"))

	cmd = rootCmd()
	cmd.SetArgs([]string{"--policy", "random"})
	assert.Error(t, cmd.Execute())
}
