// Package views provides the individual views for the unified TUI.
package views

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/f3rmion/palavra/internal/audio"
	"github.com/f3rmion/palavra/internal/clipboard"
	"github.com/f3rmion/palavra/internal/config"
	"github.com/f3rmion/palavra/internal/llm"
	"github.com/f3rmion/palavra/internal/lookup"
	"github.com/f3rmion/palavra/internal/notebook"
	"github.com/f3rmion/palavra/internal/palavra"
	"github.com/f3rmion/palavra/internal/settings"
	"github.com/f3rmion/palavra/internal/story"
	"github.com/f3rmion/palavra/internal/tui/blockart"
)

// Deps are the services shared by every view.
type Deps struct {
	Config    *config.Config
	ConfigDir string
	Client    *llm.Client
	Lookup    *lookup.Orchestrator
	Tracker   *lookup.Tracker
	Notebook  *notebook.Store
	Settings  *settings.Store
	Weaver    *story.Weaver
	Player    *audio.Player
	Art       *blockart.Cache
	Log       *slog.Logger
}

// OpenChatMsg asks the app to start a chat about Result.
type OpenChatMsg struct {
	Result palavra.DictionaryResult
}

// CredentialMsg asks the app to show the settings view because the AI
// service rejected or lacks an API key.
type CredentialMsg struct {
	Err error
}

// origin names the view that started an async action. Views ignore
// results from another origin.
type origin int

const (
	fromLookup origin = iota + 1
	fromNotebook
	fromReview
	fromStory
	fromSettings
)

type speakDoneMsg struct {
	from origin
	err  error
}

type copiedMsg struct {
	from origin
	err  error
}

type clearStatusMsg struct {
	from origin
	seq  int
}

// statusLine is a view's transient status text. A scheduled clear only
// removes the text it was scheduled for.
type statusLine struct {
	from origin
	text string
	seq  int
}

func (s *statusLine) set(text string) {
	s.text = text
	s.seq++
}

func (s *statusLine) reset() { s.set("") }

// flash shows text until d elapses or another status replaces it.
func (s *statusLine) flash(text string, d time.Duration) tea.Cmd {
	s.set(text)
	msg := clearStatusMsg{from: s.from, seq: s.seq}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func (s *statusLine) clear(msg clearStatusMsg) {
	if msg.from == s.from && msg.seq == s.seq {
		s.text = ""
	}
}

func (s statusLine) String() string { return s.text }

// requestTimeout bounds a whole view operation, playback included.
const requestTimeout = 2 * time.Minute

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// speak plays text through the shared player.
func speak(d *Deps, from origin, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		return speakDoneMsg{from: from, err: d.Player.Speak(ctx, d.Client, text)}
	}
}

func copyText(from origin, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{from: from, err: clipboard.Write(text)}
	}
}

// credentialCmd routes credential failures to the settings view.
func credentialCmd(err error) tea.Cmd {
	if !errors.Is(err, palavra.ErrCredential) {
		return nil
	}
	return func() tea.Msg { return CredentialMsg{Err: err} }
}

func describeError(err error) string {
	switch {
	case errors.Is(err, palavra.ErrCredential):
		return "The AI service needs a valid API key. Add one in Settings."
	case errors.Is(err, palavra.ErrBusy):
		return "Still busy with the previous request."
	case errors.Is(err, audio.ErrNoPlayer):
		return "No audio player found on this system."
	case errors.Is(err, palavra.ErrMalformedResponse):
		return "The AI service sent an answer palavra could not read. Try again."
	default:
		return err.Error()
	}
}

func wrap(s string, width int) string {
	if width <= 10 {
		return s
	}
	return wordwrap.String(s, width)
}

func divider(width int) string {
	return dividerStyle.Render(strings.Repeat("─", min(max(width-4, 10), 60)))
}

// Shared view styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4"))

	headwordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d"))

	readingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(1, 2)

	noteStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ffe66d")).
			Padding(0, 2).
			Margin(1, 0)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#2d3436"))

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3d5a80"))
)
