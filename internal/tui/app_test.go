package tui

import (
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func testApp(t *testing.T) AppModel {
	t.Helper()
	store := kv.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := llm.NewClient(llm.Config{Logger: log})

	app := NewApp(&views.Deps{
		Config:    config.Default(),
		ConfigDir: t.TempDir(),
		Client:    client,
		Lookup:    lookup.New(client, client),
		Tracker:   &lookup.Tracker{},
		Notebook:  notebook.Load(t.Context(), store, log),
		Settings:  settings.Load(t.Context(), store, log),
		Weaver:    story.New(client),
		Art:       &blockart.Cache{},
		Log:       log,
	})
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(AppModel)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNumberKeysTypeIntoLookup(t *testing.T) {
	app := testApp(t)

	m, _ := app.Update(key("2"))
	assert.Equal(t, ViewLookup, m.(AppModel).currentView)
}

func TestNumberKeysSwitchFromSidebar(t *testing.T) {
	app := testApp(t)

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, m.(AppModel).sidebarActive)

	m, _ = m.Update(key("2"))
	assert.Equal(t, ViewNotebook, m.(AppModel).currentView)
	assert.False(t, m.(AppModel).sidebarActive)

	m, _ = m.Update(key("4"))
	assert.Equal(t, ViewStory, m.(AppModel).currentView)
}

func TestCredentialMsgOpensSettings(t *testing.T) {
	app := testApp(t)

	m, _ := app.Update(views.CredentialMsg{Err: palavra.ErrCredential})
	got := m.(AppModel)
	assert.Equal(t, ViewSettings, got.currentView)
	assert.Contains(t, got.View(), "API key")
}

func TestOpenChatMsgSwitchesToChat(t *testing.T) {
	app := testApp(t)

	m, _ := app.Update(views.OpenChatMsg{Result: palavra.DictionaryResult{Word: "comboio"}})
	got := m.(AppModel)
	assert.Equal(t, ViewChat, got.currentView)
	assert.Contains(t, got.View(), "comboio")
}

func TestReviewAppStartsOnReview(t *testing.T) {
	app := NewReviewApp(testApp(t).deps)
	assert.Equal(t, ViewReview, app.currentView)
	assert.Equal(t, 2, app.selectedMenu)
}

func TestCopyStatusOnlyInStartingView(t *testing.T) {
	app := testApp(t)
	_, _, err := app.deps.Notebook.Save(t.Context(), palavra.DictionaryResult{Word: "comboio"})
	require.NoError(t, err)

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = m.Update(key("2"))
	require.Equal(t, ViewNotebook, m.(AppModel).currentView)

	m, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	got := m.(AppModel)
	assert.Contains(t, got.notebookView.View(), "Cop")
	assert.NotContains(t, got.storyView.View(), "Cop")
	assert.NotContains(t, got.lookupView.View(), "Cop")
}
