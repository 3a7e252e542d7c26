// Package story weaves saved words into a short narrative.
package story

import (
	"context"
	"fmt"

	"github.com/f3rmion/palavra/internal/palavra"
)

const (
	// MaxItems bounds how many items are sent to the storyteller.
	MaxItems = 10
	// MinItems is the smallest set worth weaving. Callers check it.
	MinItems = 2
)

// Storyteller writes a story around headwords.
type Storyteller interface {
	Story(ctx context.Context, headwords []string, nativeLanguage string) (string, error)
}

// Weaver builds story requests from notebook items.
type Weaver struct {
	teller Storyteller
}

// New creates a Weaver.
func New(t Storyteller) *Weaver {
	return &Weaver{teller: t}
}

// Headwords returns the words of at most the first MaxItems items, in order.
func Headwords(items []palavra.SavedItem) []string {
	n := min(len(items), MaxItems)
	words := make([]string, n)
	for i := range n {
		words[i] = items[i].Word
	}
	return words
}

// Weave returns the storyteller's text unchanged.
func (w *Weaver) Weave(ctx context.Context, items []palavra.SavedItem, nativeLanguage string) (string, error) {
	text, err := w.teller.Story(ctx, Headwords(items), nativeLanguage)
	if err != nil {
		return "", fmt.Errorf("weaving story: %w", err)
	}
	return text, nil
}
