package views

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/f3rmion/palavra/internal/story"
)

type storyDoneMsg struct {
	story string
	err   error
}

// StoryModel weaves a short story out of recent notebook words.
type StoryModel struct {
	deps *Deps

	spinner  spinner.Model
	viewport viewport.Model

	loading bool
	story   string
	err     error
	status  statusLine

	width  int
	height int
}

// NewStoryModel creates a story view.
func NewStoryModel(d *Deps) StoryModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle
	return StoryModel{
		deps:     d,
		status:   statusLine{from: fromStory},
		spinner:  sp,
		viewport: viewport.New(40, 10),
	}
}

// SetSize updates the view dimensions.
func (m *StoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-6, 3)
	m.render()
}

// Typing reports whether keys go to a text input.
func (m StoryModel) Typing() bool { return false }

// Update handles messages.
func (m StoryModel) Update(msg tea.Msg) (StoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "w":
			return m.weave()
		case "y":
			if m.story != "" {
				return m, copyText(fromStory, m.story)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case storyDoneMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.story = msg.story
			m.viewport.GotoTop()
		}
		m.render()
		return m, credentialCmd(msg.err)

	case copiedMsg:
		if msg.from != fromStory {
			return m, nil
		}
		if msg.err != nil {
			return m, m.status.flash("Copy failed: "+msg.err.Error(), 2*time.Second)
		}
		return m, m.status.flash("Story copied to clipboard.", 2*time.Second)

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
	return m, nil
}

func (m StoryModel) weave() (StoryModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	items := m.deps.Notebook.List()
	if len(items) < story.MinItems {
		m.err = fmt.Errorf("save at least %d words to weave a story", story.MinItems)
		m.render()
		return m, nil
	}

	m.loading = true
	m.err = nil
	weaver := m.deps.Weaver
	native := m.deps.Config.Native().DisplayName
	run := func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		s, err := weaver.Weave(ctx, items, native)
		return storyDoneMsg{story: s, err: err}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m *StoryModel) render() {
	switch {
	case m.err != nil:
		m.viewport.SetContent(errorStyle.Render(wrap(describeError(m.err), m.width-4)))
	case m.story != "":
		m.viewport.SetContent(renderMarkdown(m.deps, m.story, m.width))
	default:
		m.viewport.SetContent("")
	}
}

// renderMarkdown renders text with glamour, falling back to wrapped text.
func renderMarkdown(d *Deps, text string, width int) string {
	out, err := markdown(text, width)
	if err != nil {
		d.Log.Debug("markdown rendering failed", slog.Any("error", err))
		return wrap(text, width-4)
	}
	return out
}

func markdown(text string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// View renders the story view.
func (m StoryModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Story"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("from your %d most recent words", min(m.deps.Notebook.Len(), story.MaxItems))))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Weaving a story..."))
		b.WriteString("\n")
	case m.story == "" && m.err == nil:
		b.WriteString(mutedStyle.Render("Press enter to weave a story from your notebook."))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	if m.status.text != "" {
		b.WriteString(successStyle.Render(m.status.String()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: weave • y: copy • j/k: scroll"))
	return b.String()
}
