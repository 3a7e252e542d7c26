// Package settings holds the AI credential and text model selection.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/f3rmion/palavra/internal/kv"
	"github.com/f3rmion/palavra/internal/llm"
	"github.com/f3rmion/palavra/internal/palavra"
)

// DefaultTextModel is used when nothing else is configured.
const DefaultTextModel = llm.DefaultTextModel

// Defaults returns the settings used on a fresh install or after a corrupt load.
func Defaults() palavra.Settings {
	return palavra.Settings{TextModel: DefaultTextModel}
}

// Store is the Settings Store. It loads once and persists only on Save.
type Store struct {
	mu      sync.RWMutex
	kv      kv.Store
	log     *slog.Logger
	current palavra.Settings
}

// Load reads settings from storage. Absent or unparsable data yields Defaults.
func Load(ctx context.Context, store kv.Store, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{kv: store, log: log, current: Defaults()}

	raw, ok, err := store.Get(ctx, kv.KeySettings)
	if err != nil {
		log.Warn("settings unreadable, using defaults", slog.String("error", err.Error()))
		return s
	}
	if !ok {
		return s
	}

	var loaded palavra.Settings
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		log.Warn("settings corrupt, using defaults", slog.String("error", err.Error()))
		return s
	}
	if strings.TrimSpace(loaded.TextModel) == "" {
		loaded.TextModel = DefaultTextModel
	}
	s.current = loaded
	return s
}

// Get returns the current settings.
func (s *Store) Get() palavra.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// TextModel returns the configured text model.
func (s *Store) TextModel() string {
	return s.Get().TextModel
}

// EffectiveAPIKey returns the stored key, or fallback when none is stored.
func (s *Store) EffectiveAPIKey(fallback string) string {
	if k := strings.TrimSpace(s.Get().APIKey); k != "" {
		return k
	}
	return strings.TrimSpace(fallback)
}

// Save replaces and persists the settings.
func (s *Store) Save(ctx context.Context, next palavra.Settings) error {
	next.APIKey = strings.TrimSpace(next.APIKey)
	next.TextModel = strings.TrimSpace(next.TextModel)
	if next.TextModel == "" {
		next.TextModel = DefaultTextModel
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, kv.KeySettings, string(data)); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	s.current = next
	return nil
}
