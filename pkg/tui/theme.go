package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Theme centralizes Lip Gloss styles for the UI.
type Theme struct {
	Header HeaderTheme
	Footer FooterTheme
	Form   PanelTheme
	Table  table.Styles
}

// HeaderTheme styles the title line.
type HeaderTheme struct {
	Title   lipgloss.Style
	Summary lipgloss.Style
}

// FooterTheme styles the link and status lines.
type FooterTheme struct {
	Link   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// PanelTheme styles framed panels.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))

	return Theme{
		Header: HeaderTheme{
			Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
			Summary: muted,
		},
		Footer: FooterTheme{
			Link:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Underline(true),
			Status: muted,
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		},
		Form: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Table: ts,
	}
}
