package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/f3rmion/palavra/internal/kv"
	"github.com/f3rmion/palavra/internal/palavra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct {
	getErr error
	setErr error
}

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.getErr }
func (f failingKV) Set(context.Context, string, string) error { return f.setErr }

func TestLoad_FreshInstallUsesDefaults(t *testing.T) {
	s := Load(context.Background(), kv.NewMemory(), nil)
	assert.Equal(t, Defaults(), s.Get())
}

func TestSaveThenReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "palavra.db")

	db, err := kv.OpenSQLite(path)
	require.NoError(t, err)
	s := Load(ctx, db, nil)
	require.NoError(t, s.Save(ctx, palavra.Settings{APIKey: " key-123 ", TextModel: "gemini-2.5-pro"}))
	require.NoError(t, db.Close())

	db, err = kv.OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	reloaded := Load(ctx, db, nil)
	assert.Equal(t, palavra.Settings{APIKey: "key-123", TextModel: "gemini-2.5-pro"}, reloaded.Get())
}

func TestLoad_CorruptFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, kv.KeySettings, "{not json"))

	s := Load(ctx, mem, nil)
	assert.Equal(t, Defaults(), s.Get())
}

func TestLoad_UnreadableFallsBackToDefaults(t *testing.T) {
	s := Load(context.Background(), failingKV{getErr: errors.New("disk gone")}, nil)
	assert.Equal(t, Defaults(), s.Get())
}

func TestLoad_EmptyModelGetsDefault(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, kv.KeySettings, `{"apiKey":"k","textModel":""}`))

	s := Load(ctx, mem, nil)
	assert.Equal(t, "k", s.Get().APIKey)
	assert.Equal(t, DefaultTextModel, s.TextModel())
}

func TestSave_FailureKeepsPreviousSettings(t *testing.T) {
	s := Load(context.Background(), failingKV{setErr: errors.New("read-only")}, nil)
	err := s.Save(context.Background(), palavra.Settings{APIKey: "x"})
	require.Error(t, err)
	assert.Equal(t, Defaults(), s.Get())
}

func TestEffectiveAPIKey(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), nil)
	assert.Equal(t, "from-env", s.EffectiveAPIKey(" from-env "))

	require.NoError(t, s.Save(ctx, palavra.Settings{APIKey: "stored"}))
	assert.Equal(t, "stored", s.EffectiveAPIKey("from-env"))
}
