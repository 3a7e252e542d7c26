package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/f3rmion/palavra/internal/tui/views"
)

// Run starts the full application and blocks until it exits.
func Run(d *views.Deps) error {
	return run(NewApp(d))
}

// RunReview starts the application on the review view.
func RunReview(d *views.Deps) error {
	return run(NewReviewApp(d))
}

func run(app AppModel) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
