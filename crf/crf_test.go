package crf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_LoadReader(t *testing.T) {
	src := "# model\nT B E 10.5\nF U02:我 S 5\n\n"
	m := NewModel()
	require.NoError(t, m.LoadReader(strings.NewReader(src)))

	assert.Equal(t, 10.5, m.Trans[TagB][TagE])
	assert.Equal(t, 5.0, m.Feats["U02:我"][TagS])
}

func TestModel_LoadReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"short line", "T B E\n", "line 1"},
		{"bad weight", "F U00:a B x\n", "bad weight"},
		{"bad tag", "\nT B Q 1\n", "line 2"},
		{"unknown kind", "X a B 1\n", "unknown record kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModel().LoadReader(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecode(t *testing.T) {
	// A simple model that prefers "B E" for a 2-char string.
	m := NewModel()
	m.Trans[TagB][TagE] = 10.0
	m.SetFeat("U02:A", TagB, 1.0)
	m.SetFeat("U02:B", TagE, 1.0)

	got := m.Decode([]rune("AB"))
	assert.Equal(t, []Tag{TagB, TagE}, got)
	assert.Empty(t, m.Decode(nil))
}

func TestExtractFeatures(t *testing.T) {
	got := ExtractFeatures([]rune("长江"), 0)
	assert.Equal(t, []string{"U00:_BOS_", "U01:_BOS_", "U02:长", "U03:江", "U04:_BOS_"}, got)
}

func TestTagString(t *testing.T) {
	for _, tag := range []Tag{TagB, TagM, TagE, TagS} {
		back, ok := ParseTag(tag.String())
		require.True(t, ok)
		assert.Equal(t, tag, back)
	}
	_, ok := ParseTag("Z")
	assert.False(t, ok)
}
