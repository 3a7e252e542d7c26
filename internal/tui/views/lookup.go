package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/palavra/internal/config"
	"github.com/f3rmion/palavra/internal/lookup"
	"github.com/f3rmion/palavra/internal/palavra"
)

type lookupDoneMsg struct {
	token   lookup.Token
	outcome lookup.Outcome
	err     error
}

type savedMsg struct {
	item  palavra.SavedItem
	added bool
	err   error
}

// LookupModel is the dictionary lookup view model.
type LookupModel struct {
	deps *Deps

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	native int
	target int

	loading bool
	outcome *lookup.Outcome
	err     error
	status  statusLine

	width  int
	height int
}

// NewLookupModel creates a new lookup view model.
func NewLookupModel(d *Deps) LookupModel {
	ti := textinput.New()
	ti.Placeholder = "Type a word or phrase in any language..."
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return LookupModel{
		deps:     d,
		status:   statusLine{from: fromLookup},
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(40, 10),
		native:   max(palavra.LanguageIndex(d.Config.Native().Code), 0),
		target:   max(palavra.LanguageIndex(d.Config.Target().Code), 0),
	}
}

// SetSize updates the view dimensions.
func (m *LookupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-6, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-8, 3)
	m.refreshViewport()
}

// Typing reports whether keys go to the text input.
func (m LookupModel) Typing() bool {
	return m.input.Focused()
}

// Update handles messages.
func (m LookupModel) Update(msg tea.Msg) (LookupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.startLookup()
		case "ctrl+n":
			m.native = (m.native + 1) % len(palavra.Languages)
			m.persistLanguages()
			return m, nil
		case "ctrl+t":
			m.target = (m.target + 1) % len(palavra.Languages)
			m.persistLanguages()
			return m, nil
		case "ctrl+s":
			if r, ok := m.result(); ok {
				return m, m.save(r)
			}
			return m, nil
		case "ctrl+p":
			if r, ok := m.result(); ok {
				m.status.set("Speaking...")
				return m, speak(m.deps, fromLookup, r.Word)
			}
			return m, nil
		case "ctrl+y":
			if r, ok := m.result(); ok {
				return m, copyText(fromLookup, plainResult(r))
			}
			return m, nil
		case "ctrl+o":
			if r, ok := m.result(); ok {
				return m, func() tea.Msg { return OpenChatMsg{Result: r} }
			}
			return m, nil
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case lookupDoneMsg:
		if !m.deps.Tracker.IsCurrent(msg.token) {
			m.deps.Log.Debug("dropping stale lookup", slog.Uint64("token", uint64(msg.token)))
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.outcome = nil
			m.refreshViewport()
			return m, credentialCmd(msg.err)
		}
		m.err = nil
		m.outcome = &msg.outcome
		m.status.reset()
		if msg.outcome.Status == lookup.StatusPartial {
			m.status.set("Illustration unavailable this time.")
		}
		m.viewport.GotoTop()
		m.refreshViewport()
		return m, nil

	case savedMsg:
		var text string
		switch {
		case msg.err != nil:
			text = "Save failed: " + msg.err.Error()
		case msg.added:
			text = fmt.Sprintf("Saved %q to your notebook.", msg.item.Word)
		default:
			text = fmt.Sprintf("%q is already in your notebook.", msg.item.Word)
		}
		return m, m.status.flash(text, 3*time.Second)

	case speakDoneMsg:
		if msg.from != fromLookup {
			return m, nil
		}
		if msg.err != nil {
			return m, m.status.flash(describeError(msg.err), 3*time.Second)
		}
		m.status.reset()
		return m, nil

	case copiedMsg:
		if msg.from != fromLookup {
			return m, nil
		}
		if msg.err != nil {
			return m, m.status.flash("Copy failed: "+msg.err.Error(), 2*time.Second)
		}
		return m, m.status.flash("Copied to clipboard.", 2*time.Second)

	case clearStatusMsg:
		m.status.clear(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m LookupModel) startLookup() (LookupModel, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m, nil
	}

	// Languages are captured now; a later picker change does not affect
	// this request.
	native := palavra.Languages[m.native].DisplayName
	target := palavra.Languages[m.target].DisplayName
	token := m.deps.Tracker.Begin()
	orch := m.deps.Lookup

	m.loading = true
	m.err = nil
	m.status.reset()

	run := func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		out, err := orch.Lookup(ctx, query, native, target)
		return lookupDoneMsg{token: token, outcome: out, err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m LookupModel) result() (palavra.DictionaryResult, bool) {
	if m.outcome == nil || m.loading {
		return palavra.DictionaryResult{}, false
	}
	return m.outcome.Result, true
}

func (m LookupModel) save(r palavra.DictionaryResult) tea.Cmd {
	nb := m.deps.Notebook
	return func() tea.Msg {
		item, added, err := nb.Save(context.Background(), r)
		return savedMsg{item: item, added: added, err: err}
	}
}

func (m *LookupModel) persistLanguages() {
	cfg := m.deps.Config
	cfg.NativeLanguage = palavra.Languages[m.native].Code
	cfg.TargetLanguage = palavra.Languages[m.target].Code
	if err := config.Save(m.deps.ConfigDir, cfg); err != nil {
		m.deps.Log.Warn("saving language choice failed", slog.Any("error", err))
	}
}

func (m *LookupModel) refreshViewport() {
	switch {
	case m.err != nil:
		m.viewport.SetContent(errorStyle.Render(wrap(describeError(m.err), m.width-4)))
	case m.outcome != nil:
		m.viewport.SetContent(renderResult(m.deps, m.outcome.Result, m.width, true))
	default:
		m.viewport.SetContent("")
	}
}

// View renders the lookup view.
func (m LookupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Lookup"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s %s → %s %s",
		palavra.Languages[m.native].Flag, palavra.Languages[m.native].DisplayName,
		palavra.Languages[m.target].Flag, palavra.Languages[m.target].DisplayName)))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Looking it up..."))
		b.WriteString("\n")
	case m.outcome != nil || m.err != nil:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	if m.status.text != "" {
		b.WriteString(successStyle.Render(m.status.String()))
		b.WriteString("\n")
	}

	var help string
	if m.outcome != nil && !m.loading {
		help = "enter: look up • ^s: save • ^p: speak • ^y: copy • ^o: chat • pgup/pgdn: scroll"
	} else {
		help = "Type and press enter • ^n: native language • ^t: target language"
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}
