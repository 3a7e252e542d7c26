// Package notebook keeps the user's saved lookup results.
package notebook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/f3rmion/palavra/internal/kv"
	"github.com/f3rmion/palavra/internal/palavra"
	"github.com/google/uuid"
)

// Store is the Notebook Store: an ordered, headword-deduplicated collection,
// most-recent-first. Every mutation rewrites the whole collection.
type Store struct {
	mu    sync.RWMutex
	kv    kv.Store
	log   *slog.Logger
	items []palavra.SavedItem
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides id assignment.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Load reads the notebook from storage. Absent, unreadable or corrupt data
// yields an empty notebook.
func Load(ctx context.Context, store kv.Store, log *slog.Logger, opts ...Option) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		kv:    store,
		log:   log,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := store.Get(ctx, kv.KeyNotebook)
	if err != nil {
		log.Warn("notebook unreadable, starting empty", slog.String("error", err.Error()))
		return s
	}
	if !ok {
		return s
	}

	var items []palavra.SavedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Warn("notebook corrupt, starting empty", slog.String("error", err.Error()))
		return s
	}
	s.items = items
	log.Debug("notebook loaded", slog.Int("items", len(items)))
	return s
}

// Save adds result to the front of the notebook. If an item with the same
// word exists, Save returns it with added=false and writes nothing. A failed
// write leaves the notebook unchanged.
func (s *Store) Save(ctx context.Context, result palavra.DictionaryResult) (item palavra.SavedItem, added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Word == result.Word {
			return existing, false, nil
		}
	}

	item = palavra.SavedItem{ID: s.newID(), DictionaryResult: result.Clone()}
	next := slices.Insert(slices.Clone(s.items), 0, item)

	if err := s.persistLocked(ctx, next); err != nil {
		return palavra.SavedItem{}, false, err
	}
	s.items = next
	return item, true, nil
}

// Delete removes the item with id. An unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.items, func(it palavra.SavedItem) bool { return it.ID == id })
	if idx < 0 {
		return nil
	}
	next := slices.Delete(slices.Clone(s.items), idx, idx+1)
	if err := s.persistLocked(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// Clear removes every item.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistLocked(ctx, nil); err != nil {
		return err
	}
	s.items = nil
	return nil
}

// List returns a copy of the items, most-recent-first.
func (s *Store) List() []palavra.SavedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]palavra.SavedItem, len(s.items))
	for i, it := range s.items {
		out[i] = palavra.SavedItem{ID: it.ID, DictionaryResult: it.DictionaryResult.Clone()}
	}
	return out
}

// Get returns the item with id.
func (s *Store) Get(id string) (palavra.SavedItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return palavra.SavedItem{ID: it.ID, DictionaryResult: it.DictionaryResult.Clone()}, true
		}
	}
	return palavra.SavedItem{}, false
}

// FindByWord returns the item whose headword is exactly word.
func (s *Store) FindByWord(word string) (palavra.SavedItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.Word == word {
			return palavra.SavedItem{ID: it.ID, DictionaryResult: it.DictionaryResult.Clone()}, true
		}
	}
	return palavra.SavedItem{}, false
}

// Contains reports whether word is already saved.
func (s *Store) Contains(word string) bool {
	_, ok := s.FindByWord(word)
	return ok
}

// Len returns the number of saved items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// persistLocked writes items as the full collection. Callers hold s.mu and
// swap items in only after it succeeds.
func (s *Store) persistLocked(ctx context.Context, items []palavra.SavedItem) error {
	if items == nil {
		items = []palavra.SavedItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshaling notebook: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyNotebook, string(data)); err != nil {
		s.log.Error("notebook not persisted", slog.String("error", err.Error()))
		return fmt.Errorf("persisting notebook: %w", err)
	}
	return nil
}
