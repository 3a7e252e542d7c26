package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "pt-PT", cfg.Target().Code)
	assert.Equal(t, "en", cfg.Native().Code)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(
		"target_language: German\nrequest_timeout: 5s\nvoice: Puck\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Target().Code)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "Puck", cfg.Voice)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.Models.Image)
	assert.Equal(t, "en", cfg.NativeLanguage)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := Default()
	cfg.NativeLanguage = "fr"
	cfg.AudioPlayer = "mpv --really-quiet"

	require.NoError(t, Save(dir, cfg))
	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":         "native_language: [",
		"unknown language": "target_language: Klingon\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
			_, err := Load(dir)
			require.Error(t, err)
		})
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/cfg", "palavra.db"), cfg.DatabasePath("/cfg"))

	cfg.Database = "/var/lib/palavra.db"
	assert.Equal(t, "/var/lib/palavra.db", cfg.DatabasePath("/cfg"))
}
