package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/palavra/internal/flashcard"
	"github.com/f3rmion/palavra/internal/tui/blockart"
)

var (
	reviewWordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(2, 8).
			Align(lipgloss.Center)

	reviewArtStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d"))

	reviewProgressStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888"))

	reviewHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true).
			Align(lipgloss.Center)

	reviewCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3d5a80")).
			Padding(1, 3)
)

// ReviewModel is the flashcard review view model.
type ReviewModel struct {
	deps     *Deps
	reviewer *flashcard.Reviewer
	status   statusLine

	width  int
	height int
}

// NewReviewModel creates a review view over the current notebook.
func NewReviewModel(d *Deps) ReviewModel {
	return ReviewModel{
		deps:     d,
		reviewer: flashcard.New(d.Notebook.List()),
		status:   statusLine{from: fromReview},
	}
}

// Reload starts a fresh review from the current notebook contents.
func (m *ReviewModel) Reload() {
	m.reviewer = flashcard.New(m.deps.Notebook.List())
	m.status.reset()
}

// SetSize updates the view dimensions.
func (m *ReviewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Typing reports whether keys go to a text input.
func (m ReviewModel) Typing() bool { return false }

// Update handles messages.
func (m ReviewModel) Update(msg tea.Msg) (ReviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case " ", "enter":
			if m.reviewer.FaceUp() {
				m.reviewer.Advance()
			} else {
				m.reviewer.Reveal()
			}
			return m, nil
		case "right", "l", "n":
			m.reviewer.Advance()
			return m, nil
		case "left", "h", "p":
			m.reviewer.Previous()
			return m, nil
		case "r":
			m.reviewer.Reset()
			return m, nil
		case "s":
			if item, ok := m.reviewer.Current(); ok {
				m.status.set("Speaking...")
				return m, speak(m.deps, fromReview, item.Word)
			}
			return m, nil
		case "c":
			if item, ok := m.reviewer.Current(); ok {
				r := item.DictionaryResult
				return m, func() tea.Msg { return OpenChatMsg{Result: r} }
			}
			return m, nil
		}

	case speakDoneMsg:
		if msg.from != fromReview {
			return m, nil
		}
		if msg.err != nil {
			return m, m.status.flash(describeError(msg.err), 3*time.Second)
		}
		m.status.reset()
		return m, nil

	case clearStatusMsg:
		m.status.clear(msg)
		return m, nil
	}
	return m, nil
}

// View renders the review view.
func (m ReviewModel) View() string {
	item, ok := m.reviewer.Current()
	if !ok {
		content := headwordStyle.Render("Your notebook is empty") + "\n\n" +
			helpStyle.Render("Save words from Lookup to review them here")
		return "\n\n" + boxStyle.Padding(2, 4).Render(content)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Review"))
	b.WriteString("  ")
	b.WriteString(reviewProgressStyle.Render(fmt.Sprintf("Card %d of %d", m.reviewer.Index()+1, m.reviewer.Len())))
	b.WriteString("\n\n")

	contentWidth := max(m.width-4, 40)
	front := m.renderHeadword(item.Word, contentWidth)

	if !m.reviewer.FaceUp() {
		b.WriteString(lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(front))
		b.WriteString("\n\n")
		b.WriteString(reviewHintStyle.Width(contentWidth).Render("Press SPACE to reveal"))
	} else {
		b.WriteString(reviewCardStyle.Width(contentWidth - 2).Render(
			renderResult(m.deps, item.DictionaryResult, contentWidth-8, true)))
	}

	b.WriteString("\n\n")
	if m.status.text != "" {
		b.WriteString(successStyle.Render(m.status.String()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("space: flip/next • ←/→: prev/next • r: reset • s: speak • c: chat"))

	return b.String()
}

// renderHeadword draws the card front as block art when a font is
// available and the word fits, otherwise as styled text.
func (m ReviewModel) renderHeadword(word string, width int) string {
	if blockart.FontAvailable() && len([]rune(word)) <= 8 {
		art := m.deps.Art.Get(fmt.Sprintf("word:%s:%d", word, width), func() string {
			return blockart.Text(word, min(width, 64), 8)
		})
		if art != "" {
			return reviewArtStyle.Render(art)
		}
	}
	return reviewWordStyle.Render(word)
}
