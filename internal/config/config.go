// Package config handles loading and saving the palavra configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/f3rmion/palavra/internal/palavra"
)

// FileName is the configuration file inside the config directory.
const FileName = "config.yaml"

// Config is the user configuration. API key and text model are not here;
// they live in the settings store.
type Config struct {
	NativeLanguage    string        `yaml:"native_language"`
	TargetLanguage    string        `yaml:"target_language"`
	APIBaseURL        string        `yaml:"api_base_url"`
	Models            Models        `yaml:"models"`
	Voice             string        `yaml:"voice"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Database          string        `yaml:"database"`
	AudioPlayer       string        `yaml:"audio_player"`
	AnkiDeck          string        `yaml:"anki_deck"`
}

// Models names the image and speech models.
type Models struct {
	Image  string `yaml:"image"`
	Speech string `yaml:"speech"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		NativeLanguage: "en",
		TargetLanguage: "pt-PT",
		APIBaseURL:     "https://generativelanguage.googleapis.com/v1beta",
		Models: Models{
			Image:  "gemini-2.5-flash-image",
			Speech: "gemini-2.5-flash-preview-tts",
		},
		Voice:          "Kore",
		RequestTimeout: 60 * time.Second,
		Database:       "palavra.db",
		AnkiDeck:       "Palavra",
	}
}

// Load reads config.yaml from dir. A missing file yields Default; fields
// absent from the file keep their defaults.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to config.yaml in dir.
func Save(dir string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), out, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that both languages are known.
func (c *Config) Validate() error {
	if _, ok := palavra.FindLanguage(c.NativeLanguage); !ok {
		return fmt.Errorf("unknown native_language %q", c.NativeLanguage)
	}
	if _, ok := palavra.FindLanguage(c.TargetLanguage); !ok {
		return fmt.Errorf("unknown target_language %q", c.TargetLanguage)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return nil
}

// Native returns the configured native language, falling back to English.
func (c *Config) Native() palavra.Language {
	if l, ok := palavra.FindLanguage(c.NativeLanguage); ok {
		return l
	}
	return palavra.Languages[0]
}

// Target returns the configured target language, falling back to
// European Portuguese.
func (c *Config) Target() palavra.Language {
	if l, ok := palavra.FindLanguage(c.TargetLanguage); ok {
		return l
	}
	return palavra.Languages[1]
}

// DatabasePath resolves the database file against dir.
func (c *Config) DatabasePath(dir string) string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(dir, c.Database)
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "palavra"), nil
}

// EnsureConfigDir creates dir, or the default directory when dir is empty.
func EnsureConfigDir(dir string) (string, error) {
	if dir == "" {
		d, err := GetConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
