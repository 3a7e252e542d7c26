// Package cmd contains all CLI commands for palavra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/palavra/internal/config"
	"github.com/f3rmion/palavra/internal/tui"
	"github.com/f3rmion/palavra/internal/tui/views"
)

// logFileName is where the TUI logs, since it owns the terminal.
const logFileName = "palavra.log"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "palavra",
	Short: "A pocket language tutor for your terminal",
	Long: `palavra looks up words and phrases in any language and explains them
in yours, with examples, a friendly note, verb conjugations, an
illustration and spoken audio.

Saved words go to your notebook, where you can review them as
flashcards, weave them into a short story, chat with a tutor about
them or export them to Anki.

Running 'palavra' without arguments launches the interactive TUI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/palavra)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("native", "", "native language code or name (e.g. en)")
	rootCmd.PersistentFlags().String("target", "", "target language code or name (e.g. pt-PT)")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "keep the notebook and settings in memory for this run")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("native", rootCmd.PersistentFlags().Lookup("native"))
	_ = viper.BindPFlag("target", rootCmd.PersistentFlags().Lookup("target"))
	_ = viper.BindPFlag("ephemeral", rootCmd.PersistentFlags().Lookup("ephemeral"))
}

// initConfig reads in ENV variables and resolves the config directory.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("PALAVRA")
	viper.AutomaticEnv()
	_ = viper.BindEnv("api_key", "PALAVRA_API_KEY", "GEMINI_API_KEY")
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// newLogger builds the CLI logger: text on stderr, Warn unless --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newFileLogger logs to palavra.log in dir. The returned func closes the file.
func newFileLogger(dir string) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return log, func() { f.Close() }, nil
}

// runTUI launches the TUI application.
func runTUI(cmd *cobra.Command, args []string) error {
	return withTUI(cmd, tui.Run)
}

func withTUI(cmd *cobra.Command, run func(*views.Deps) error) error {
	dir, err := config.EnsureConfigDir(getConfigDir())
	if err != nil {
		return fmt.Errorf("preparing config dir: %w", err)
	}
	log, closeLog, err := newFileLogger(dir)
	if err != nil {
		return err
	}
	defer closeLog()

	svc, err := openServices(cmd.Context(), dir, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	return run(svc.deps())
}
