package romanize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReading(t *testing.T) {
	p := NewParser()

	got, ok := p.Reading("你好")
	require.True(t, ok)
	assert.Equal(t, "nǐ hǎo", got)

	_, ok = p.Reading("hello")
	assert.False(t, ok)
}

func TestSyllablesSkipNonHan(t *testing.T) {
	syl := NewParser().Syllables("我, ok 中")
	require.Len(t, syl, 2)
	assert.Equal(t, "我", syl[0].Han)
	assert.Equal(t, Tone3, syl[0].Tone)
	assert.Equal(t, Tone1, syl[1].Tone)
}

func TestSplitTone(t *testing.T) {
	tests := []struct {
		in   string
		tone Tone
		base string
	}{
		{"mā", Tone1, "ma"},
		{"lǜ", Tone4, "lü"},
		{"ma", Tone5, "ma"},
	}
	for _, tt := range tests {
		tone, base := SplitTone(tt.in)
		assert.Equal(t, tt.tone, tone, tt.in)
		assert.Equal(t, tt.base, base, tt.in)
	}
}

func TestToHiragana(t *testing.T) {
	assert.Equal(t, "にほんご", ToHiragana("ニホンゴ"))
	assert.Equal(t, "abc", ToHiragana("abc"))
}

func TestReaderByLanguage(t *testing.T) {
	r := NewReader()

	got, ok := r.Reading("中文", "Chinese (Mandarin)")
	require.True(t, ok)
	assert.Equal(t, "zhōng wén", got)

	_, ok = r.Reading("gato", "Spanish")
	assert.False(t, ok)

	_, ok = r.Reading("ねこ", "Japanese")
	assert.False(t, ok)
}

func TestJapaneseReading(t *testing.T) {
	got, ok := NewReader().Reading("日本語", "Japanese")
	require.True(t, ok)
	assert.Equal(t, "にほんご", got)
}
