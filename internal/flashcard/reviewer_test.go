package flashcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/palavra/internal/palavra"
)

func deck(words ...string) []palavra.SavedItem {
	out := make([]palavra.SavedItem, len(words))
	for i, w := range words {
		out[i] = palavra.SavedItem{ID: w, DictionaryResult: palavra.DictionaryResult{Word: w}}
	}
	return out
}

func TestRevealAdvanceWrap(t *testing.T) {
	r := New(deck("a", "b", "c"))

	assert.Equal(t, 0, r.Index())
	assert.False(t, r.FaceUp())

	r.Reveal()
	assert.Equal(t, 0, r.Index())
	assert.True(t, r.FaceUp())

	r.Advance()
	assert.Equal(t, 1, r.Index())
	assert.False(t, r.FaceUp())

	r.Advance()
	r.Reveal()
	r.Advance()
	assert.Equal(t, 0, r.Index())
	assert.False(t, r.FaceUp())

	cur, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.Word)
}

func TestRevealTwiceFlipsBack(t *testing.T) {
	r := New(deck("a"))
	r.Reveal()
	r.Reveal()
	assert.False(t, r.FaceUp())
}

func TestPreviousAndReset(t *testing.T) {
	r := New(deck("a", "b", "c"))

	r.Previous()
	assert.Equal(t, 2, r.Index())

	r.Reveal()
	r.Reset()
	assert.Equal(t, 0, r.Index())
	assert.False(t, r.FaceUp())
}

func TestEmptyDeck(t *testing.T) {
	var r Reviewer
	r.Reveal()
	r.Advance()
	r.Previous()

	_, ok := r.Current()
	assert.False(t, ok)
	assert.Zero(t, r.Len())
	assert.False(t, r.FaceUp())
}

func TestDeckIsCopied(t *testing.T) {
	items := deck("a", "b")
	r := New(items)
	items[0].Word = "changed"

	cur, _ := r.Current()
	assert.Equal(t, "a", cur.Word)
}
