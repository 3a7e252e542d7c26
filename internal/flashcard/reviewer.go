// Package flashcard drills a fixed set of saved items.
package flashcard

import (
	"slices"

	"github.com/f3rmion/palavra/internal/palavra"
)

// Reviewer is an in-memory card state machine. The zero value is an empty
// deck. It is not safe for concurrent use.
type Reviewer struct {
	items  []palavra.SavedItem
	index  int
	faceUp bool
}

// New starts a review at the front of the first card.
func New(items []palavra.SavedItem) *Reviewer {
	return &Reviewer{items: slices.Clone(items)}
}

// Len returns the number of cards.
func (r *Reviewer) Len() int { return len(r.items) }

// Index returns the current card index.
func (r *Reviewer) Index() int { return r.index }

// FaceUp reports whether the back of the card is showing.
func (r *Reviewer) FaceUp() bool { return r.faceUp }

// Current returns the card being shown, or false for an empty deck.
func (r *Reviewer) Current() (palavra.SavedItem, bool) {
	if len(r.items) == 0 {
		return palavra.SavedItem{}, false
	}
	return r.items[r.index], true
}

// Reveal flips the current card.
func (r *Reviewer) Reveal() {
	if len(r.items) == 0 {
		return
	}
	r.faceUp = !r.faceUp
}

// Advance moves to the front of the next card, wrapping after the last.
func (r *Reviewer) Advance() {
	if len(r.items) == 0 {
		return
	}
	r.index = (r.index + 1) % len(r.items)
	r.faceUp = false
}

// Previous moves to the front of the previous card, wrapping before the first.
func (r *Reviewer) Previous() {
	if len(r.items) == 0 {
		return
	}
	r.index = (r.index - 1 + len(r.items)) % len(r.items)
	r.faceUp = false
}

// Reset returns to the front of the first card.
func (r *Reviewer) Reset() {
	r.index = 0
	r.faceUp = false
}
