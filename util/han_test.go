package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsChineseWord(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"中国", true},
		{"㐀㐁", true},    // Extension A
		{"\U00020000", true}, // Extension B
		{"", false},
		{"中国2", false},
		{"中，国", false},
		{"abc", false},
		{"中 国", false},
		{"ＡＢ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsChineseWord(tt.in), "IsChineseWord(%q)", tt.in)
	}
}

func TestHanBlocks(t *testing.T) {
	got := HanBlocks("CreateTime: 2023, Name: 张三。你好world世界")
	assert.Equal(t, []string{"张三", "你好", "世界"}, got)
	assert.Empty(t, HanBlocks("no chinese here"))
}

func TestHasMark(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"中。", true},
		{"中，国", true},
		{"中\u3000国", true}, // ideographic space
		{"《书》", true},
		{"a+b", true},
		{"￥", true},
		{"中国", false},
		{"ＡＢ", false},
		{"中 国", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasMark(tt.in), "HasMark(%q)", tt.in)
	}
}
