// Package tui provides the interactive terminal UI for palavra.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive colors keep the sidebar readable on light terminals.
var (
	ColorAzulejo   = lipgloss.AdaptiveColor{Light: "#1d4e89", Dark: "#5fa8ff"}
	ColorTerracota = lipgloss.AdaptiveColor{Light: "#b5462b", Dark: "#e9805f"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#2a7f62", Dark: "#7fd1ae"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#8a8a8a", Dark: "#6c6c6c"}
	ColorInk       = lipgloss.AdaptiveColor{Light: "#222222", Dark: "#ececec"}
	ColorSelection = lipgloss.AdaptiveColor{Light: "#e4ecf7", Dark: "#24344d"}
)

var (
	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(ColorAzulejo).
			Padding(1, 2, 1, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorInk).
				Background(ColorAzulejo).
				MarginBottom(1)

	SidebarItemStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				PaddingLeft(2)

	// The active item gets a marker in place of the left padding.
	SidebarItemActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorTerracota).
				Background(ColorSelection).
				Border(lipgloss.ThickBorder(), false, false, false, true).
				BorderForeground(ColorTerracota).
				PaddingLeft(1)

	SidebarHelpStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Italic(true).
				MarginTop(2)
)

var (
	HelpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTerracota)

	HelpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Underline(true).
				Foreground(ColorAzulejo).
				MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Width(14)

	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorInk)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorAzulejo).
			Padding(1, 3).
			Width(60)
)

var ContentStyle = lipgloss.NewStyle().Padding(0, 2)
