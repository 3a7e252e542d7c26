package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/palavra/internal/chat"
	"github.com/f3rmion/palavra/internal/palavra"
)

var (
	chatUserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	chatModelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)
)

type chatReplyMsg struct {
	session *chat.Session
	err     error
}

// ChatModel is a conversation about one dictionary result.
type ChatModel struct {
	deps    *Deps
	session *chat.Session

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	waiting  bool
	err      error

	width  int
	height int
}

// NewChatModel creates an empty chat view.
func NewChatModel(d *Deps) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about this word..."
	ti.CharLimit = 500
	ti.PromptStyle = chatUserStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return ChatModel{
		deps:     d,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(40, 10),
	}
}

// Open starts a new conversation about r, discarding any previous one.
func (m *ChatModel) Open(r palavra.DictionaryResult) tea.Cmd {
	m.session = chat.Open(m.deps.Client, r, m.deps.Log)
	m.waiting = false
	m.err = nil
	m.input.Reset()
	m.render()
	return m.input.Focus()
}

// SetSize updates the view dimensions.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-6, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-8, 3)
	m.render()
}

// Typing reports whether keys go to the text input.
func (m ChatModel) Typing() bool {
	return m.session != nil && m.input.Focused()
}

// Update handles messages.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.session == nil {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			return m.send()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case chatReplyMsg:
		// A reply for a conversation that was replaced is dropped.
		if msg.session != m.session {
			return m, nil
		}
		m.waiting = false
		m.err = msg.err
		m.render()
		return m, credentialCmd(msg.err)

	case spinner.TickMsg:
		if !m.waiting {
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

func (m ChatModel) send() (ChatModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}
	m.waiting = true
	m.input.Reset()
	m.err = nil

	s := m.session
	run := func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		_, err := s.Send(ctx, text)
		return chatReplyMsg{session: s, err: err}
	}
	// Show the user turn while the reply is pending.
	m.renderPending(text)
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m *ChatModel) render() {
	if m.session == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.transcript(m.session.Transcript(), ""))
	m.viewport.GotoBottom()
}

func (m *ChatModel) renderPending(text string) {
	m.viewport.SetContent(m.transcript(m.session.Transcript(), text))
	m.viewport.GotoBottom()
}

func (m ChatModel) transcript(turns []palavra.Turn, pending string) string {
	var b strings.Builder
	for _, t := range turns {
		m.writeTurn(&b, t)
	}
	if pending != "" {
		m.writeTurn(&b, palavra.Turn{Role: palavra.RoleUser, Text: pending})
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(wrap(describeError(m.err), m.width-4)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Your message was kept. Send again to retry."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ChatModel) writeTurn(b *strings.Builder, t palavra.Turn) {
	if t.Role == palavra.RoleUser {
		b.WriteString(chatUserStyle.Render("You"))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(wrap(t.Text, m.width-4)))
	} else {
		b.WriteString(chatModelStyle.Render("Tutor"))
		b.WriteString("\n")
		b.WriteString(renderMarkdown(m.deps, t.Text, m.width))
	}
	b.WriteString("\n\n")
}

// View renders the chat view.
func (m ChatModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Chat"))

	if m.session == nil {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("Open a chat from Lookup (^o), Notebook (c) or Review (c)."))
		return b.String()
	}

	r := m.session.Result()
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("about %s", r.Word)))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.waiting {
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Thinking..."))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: send • pgup/pgdn: scroll • esc: sidebar"))
	return b.String()
}
