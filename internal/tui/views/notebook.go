package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/f3rmion/palavra/internal/anki"
	"github.com/f3rmion/palavra/internal/palavra"
)

var (
	notebookRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))

	notebookCountStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Padding(0, 1)
)

type deletedMsg struct {
	word string
	err  error
}

type exportedMsg struct {
	path string
	err  error
}

// NotebookModel lists saved items.
type NotebookModel struct {
	deps *Deps

	cursor        int
	offset        int
	detail        bool
	confirmDelete bool
	status        statusLine

	width  int
	height int
}

// NewNotebookModel creates a notebook view.
func NewNotebookModel(d *Deps) NotebookModel {
	return NotebookModel{deps: d, status: statusLine{from: fromNotebook}}
}

// SetSize updates the view dimensions.
func (m *NotebookModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Typing reports whether keys go to a text input.
func (m NotebookModel) Typing() bool { return false }

func (m NotebookModel) visibleRows() int {
	return max(m.height-8, 3)
}

func (m NotebookModel) selected() (palavra.SavedItem, bool) {
	items := m.deps.Notebook.List()
	if m.cursor < 0 || m.cursor >= len(items) {
		return palavra.SavedItem{}, false
	}
	return items[m.cursor], true
}

// Update handles messages.
func (m NotebookModel) Update(msg tea.Msg) (NotebookModel, tea.Cmd) {
	n := m.deps.Notebook.Len()
	m.cursor = min(m.cursor, max(n-1, 0))

	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key != "x" {
			m.confirmDelete = false
		}
		switch key {
		case "j", "down":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = max(n-1, 0)
		case "enter":
			m.detail = !m.detail
		case "x":
			item, ok := m.selected()
			if !ok {
				return m, nil
			}
			if !m.confirmDelete {
				m.confirmDelete = true
				m.status.set(fmt.Sprintf("Press x again to delete %q", item.Word))
				return m, nil
			}
			m.confirmDelete = false
			return m, m.remove(item)
		case "s":
			if item, ok := m.selected(); ok {
				m.status.set("Speaking...")
				return m, speak(m.deps, fromNotebook, item.Word)
			}
		case "y":
			if item, ok := m.selected(); ok {
				return m, copyText(fromNotebook, plainResult(item.DictionaryResult))
			}
		case "c":
			if item, ok := m.selected(); ok {
				r := item.DictionaryResult
				return m, func() tea.Msg { return OpenChatMsg{Result: r} }
			}
		case "a":
			return m, m.export()
		}
		m.scroll()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			return m, m.status.flash("Delete failed: "+msg.err.Error(), 3*time.Second)
		}
		return m, m.status.flash(fmt.Sprintf("Deleted %q.", msg.word), 3*time.Second)

	case exportedMsg:
		if msg.err != nil {
			return m, m.status.flash("Export failed: "+msg.err.Error(), 4*time.Second)
		}
		return m, m.status.flash("Exported to "+msg.path, 4*time.Second)

	case speakDoneMsg:
		if msg.from != fromNotebook {
			return m, nil
		}
		if msg.err != nil {
			return m, m.status.flash(describeError(msg.err), 3*time.Second)
		}
		m.status.reset()

	case copiedMsg:
		if msg.from != fromNotebook {
			return m, nil
		}
		if msg.err != nil {
			return m, m.status.flash("Copy failed: "+msg.err.Error(), 2*time.Second)
		}
		return m, m.status.flash("Copied to clipboard.", 2*time.Second)

	case clearStatusMsg:
		m.status.clear(msg)
	}
	return m, nil
}

func (m *NotebookModel) scroll() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m NotebookModel) remove(item palavra.SavedItem) tea.Cmd {
	nb := m.deps.Notebook
	return func() tea.Msg {
		return deletedMsg{word: item.Word, err: nb.Delete(context.Background(), item.ID)}
	}
}

func (m NotebookModel) export() tea.Cmd {
	deck := m.deps.Config.AnkiDeck
	path := filepath.Join(m.deps.ConfigDir, strings.ReplaceAll(strings.ToLower(deck), " ", "-")+".apkg")
	items := m.deps.Notebook.List()
	exp := anki.NewExporter(m.deps.Log)
	return func() tea.Msg {
		return exportedMsg{path: path, err: exp.Export(path, deck, items)}
	}
}

// View renders the notebook view.
func (m NotebookModel) View() string {
	items := m.deps.Notebook.List()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Notebook"))
	b.WriteString(notebookCountStyle.Render(fmt.Sprintf("%d saved", len(items))))
	b.WriteString("\n\n")

	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("Nothing saved yet. Look up a word and press ^s to keep it."))
		return b.String()
	}

	if m.detail {
		if item, ok := m.selected(); ok {
			b.WriteString(renderResult(m.deps, item.DictionaryResult, m.width, false))
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("enter: back • s: speak • y: copy • c: chat"))
			return b.String()
		}
	}

	end := min(m.offset+m.visibleRows(), len(items))
	for i := m.offset; i < end; i++ {
		it := items[i]
		word := it.Word
		if reading, ok := it.Reading.Get(); ok {
			word += " " + readingStyle.Render(reading)
		}
		row := fmt.Sprintf("%-28s %s", word, mutedStyle.Render(humanize.Time(it.Timestamp)))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + row))
		} else {
			b.WriteString(notebookRowStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}
	if len(items) > m.visibleRows() {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Showing %d-%d of %d", m.offset+1, end, len(items))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status.text != "" {
		b.WriteString(successStyle.Render(m.status.String()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("j/k: move • enter: details • x: delete • s: speak • c: chat • a: export to Anki"))
	return b.String()
}
