package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/f3rmion/palavra/internal/audio"
	"github.com/f3rmion/palavra/internal/config"
	"github.com/f3rmion/palavra/internal/kv"
	"github.com/f3rmion/palavra/internal/llm"
	"github.com/f3rmion/palavra/internal/lookup"
	"github.com/f3rmion/palavra/internal/notebook"
	"github.com/f3rmion/palavra/internal/palavra"
	"github.com/f3rmion/palavra/internal/settings"
	"github.com/f3rmion/palavra/internal/story"
	"github.com/f3rmion/palavra/internal/tui/blockart"
	"github.com/f3rmion/palavra/internal/tui/views"
)

// services holds everything a command needs, opened once per process.
type services struct {
	dir      string
	cfg      *config.Config
	close    func() error
	settings *settings.Store
	notebook *notebook.Store
	client   *llm.Client
	lookup   *lookup.Orchestrator
	player   *audio.Player
	log      *slog.Logger
}

func openServices(ctx context.Context, dir string, log *slog.Logger) (*services, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := applyLanguageFlags(cfg); err != nil {
		return nil, err
	}

	var db kv.Store = kv.NewMemory()
	closeDB := func() error { return nil }
	if !viper.GetBool("ephemeral") {
		sq, err := kv.OpenSQLite(cfg.DatabasePath(dir))
		if err != nil {
			return nil, err
		}
		db, closeDB = sq, sq.Close
	}

	st := settings.Load(ctx, db, log)
	client := llm.NewClient(llm.Config{
		BaseURL: cfg.APIBaseURL,
		APIKey: func() string {
			return st.EffectiveAPIKey(viper.GetString("api_key"))
		},
		TextModel:         st.TextModel,
		ImageModel:        cfg.Models.Image,
		SpeechModel:       cfg.Models.Speech,
		Voice:             cfg.Voice,
		Timeout:           cfg.RequestTimeout,
		Logger:            log,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	return &services{
		dir:      dir,
		cfg:      cfg,
		close:    closeDB,
		settings: st,
		notebook: notebook.Load(ctx, db, log),
		client:   client,
		lookup:   lookup.New(client, client, lookup.WithLogger(log)),
		player:   audio.NewPlayer(audio.CommandOutput{Command: cfg.AudioPlayer}, log),
		log:      log,
	}, nil
}

// applyLanguageFlags overrides the configured languages for this run.
func applyLanguageFlags(cfg *config.Config) error {
	for _, f := range []struct {
		flag string
		dst  *string
	}{
		{"native", &cfg.NativeLanguage},
		{"target", &cfg.TargetLanguage},
	} {
		v := viper.GetString(f.flag)
		if v == "" {
			continue
		}
		l, ok := palavra.FindLanguage(v)
		if !ok {
			return fmt.Errorf("unknown %s language %q (see 'palavra languages')", f.flag, v)
		}
		*f.dst = l.Code
	}
	return nil
}

func (s *services) deps() *views.Deps {
	return &views.Deps{
		Config:    s.cfg,
		ConfigDir: s.dir,
		Client:    s.client,
		Lookup:    s.lookup,
		Tracker:   &lookup.Tracker{},
		Notebook:  s.notebook,
		Settings:  s.settings,
		Weaver:    story.New(s.client),
		Player:    s.player,
		Art:       &blockart.Cache{},
		Log:       s.log,
	}
}

func (s *services) Close() error {
	return s.close()
}

// cliServices opens services for a non-TUI command, logging to stderr.
func cliServices(ctx context.Context) (*services, error) {
	dir, err := config.EnsureConfigDir(getConfigDir())
	if err != nil {
		return nil, fmt.Errorf("preparing config dir: %w", err)
	}
	return openServices(ctx, dir, newLogger())
}
