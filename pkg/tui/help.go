package tui

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

//go:embed help.md
var helpMarkdown string

// helpPanel renders the key reference inside a framed, scrollable viewport.
type helpPanel struct {
	viewport viewport.Model
	frame    lipgloss.Style
	width    int
	height   int
	err      error
}

func newHelpPanel(frame lipgloss.Style) helpPanel {
	h := helpPanel{viewport: viewport.New(1, 1), frame: frame}
	h.SetSize(60, 20)
	return h
}

func (h helpPanel) Update(msg tea.Msg) (helpPanel, tea.Cmd) {
	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

func (h helpPanel) View() string {
	return h.frame.Render(h.viewport.View())
}

// SetSize fits the panel and re-renders the markdown to the new width.
func (h *helpPanel) SetSize(width, height int) {
	if width < 32 {
		width = 32
	}
	if height < 8 {
		height = 8
	}
	if h.width == width && h.height == height {
		return
	}
	h.width, h.height = width, height

	innerWidth := max(width-h.frame.GetHorizontalFrameSize(), 1)
	h.viewport.Width = innerWidth
	h.viewport.Height = max(height-h.frame.GetVerticalFrameSize(), 1)
	h.render(innerWidth)
}

func (h *helpPanel) render(wrap int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(max(wrap, 10)),
	)
	if err != nil {
		h.err = err
		h.viewport.SetContent("help unavailable: " + err.Error())
		return
	}
	content, err := renderer.Render(strings.TrimSpace(helpMarkdown))
	if err != nil {
		h.err = err
		h.viewport.SetContent("help unavailable: " + err.Error())
		return
	}
	h.err = nil
	h.viewport.SetContent(content)
	h.viewport.SetYOffset(0)
}
