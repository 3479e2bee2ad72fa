// Package tui is the interactive terminal front end: a sortable, searchable
// table of streams, a map summary and an add form.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/controller"
	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/render"
	"tableflip.dev/streammap/pkg/view"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeHelp
)

// Form field order.
const (
	fieldLink = iota
	fieldDescription
	fieldCity
	fieldState
	fieldCount
)

// columns shown in the table, in order. The link is shown for the selected
// row in the footer.
var columns = []struct {
	field string
	title string
	width int
}{
	{entry.FieldDescription, "Stream", 44},
	{entry.FieldDateTime, "Date/Time", 19},
	{entry.FieldCity, "City", 16},
	{entry.FieldState, "State", 6},
	{entry.FieldLatitude, "Latitude", 12},
	{entry.FieldLongitude, "Longitude", 12},
}

type changedMsg struct{}

type flowDoneMsg struct {
	form   controller.Form
	result controller.Result
}

// Model is the bubbletea model over an app.App.
type Model struct {
	app   *app.App
	ctx   context.Context
	theme Theme

	mode   mode
	table  table.Model
	search textinput.Model
	fields [fieldCount]textinput.Model
	here   bool
	focus  int
	help   helpPanel

	rows    []render.Row
	pending int
	status  string
	failed  bool

	width, height int
}

// New builds the model. a must already be started.
func New(ctx context.Context, a *app.App) Model {
	th := DefaultTheme()
	t := table.New(
		table.WithColumns(tableColumns(a.View.Sort())),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithStyles(th.Table),
	)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search streams"
	search.CharLimit = 120

	m := Model{
		app:    a,
		ctx:    ctx,
		theme:  th,
		table:  t,
		search: search,
		help:   newHelpPanel(th.Form.Frame),
		status: "/ search, a add, 1-6 sort, ? help, q quit",
	}
	for i, p := range []string{"Link", "Description", "City", "State"} {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-12s", p+":")
		ti.CharLimit = 512
		m.fields[i] = ti
	}
	m.setRows(a.Rows())
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, a *app.App) error {
	p := tea.NewProgram(New(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.app)
}

func waitForChange(a *app.App) tea.Cmd {
	return func() tea.Msg {
		<-a.Changed()
		return changedMsg{}
	}
}

func waitForFlow(f *controller.Flow) tea.Cmd {
	return func() tea.Msg {
		<-f.Done()
		return flowDoneMsg{form: f.Form, result: f.Result()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := msg.Height - 10
		if m.mode == modeForm {
			h -= fieldCount + 3
		}
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		m.help.SetSize(msg.Width, msg.Height-3)
		return m, nil
	case changedMsg:
		m.setRows(m.app.Rows())
		return m, waitForChange(m.app)
	case flowDoneMsg:
		m.pending--
		m.finishFlow(msg.form, msg.result)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeHelp:
			return m.updateHelp(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.mode = modeHelp
		m.table.Blur()
		return m, nil
	case "/":
		m.mode = modeSearch
		m.table.Blur()
		return m, m.search.Focus()
	case "a":
		m.mode = modeForm
		m.table.Blur()
		m.focus = fieldLink
		return m, m.fields[m.focus].Focus()
	case "esc":
		if m.app.View.Filter() != "" {
			m.search.SetValue("")
			m.app.SetFilter("")
			m.setRows(m.app.Rows())
		}
		return m, nil
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= byte('0'+len(columns)) {
		col := columns[key[0]-'1']
		if _, err := m.app.ToggleSort(col.field); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.table.SetColumns(tableColumns(m.app.View.Sort()))
		m.setRows(m.app.Rows())
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.mode = modeBrowse
		m.table.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeBrowse
		m.search.Blur()
		m.table.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.app.View.Filter() {
		m.app.SetFilter(m.search.Value())
		m.setRows(m.app.Rows())
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveForm()
		return m, nil
	case "tab", "down":
		return m, m.moveFocus(1)
	case "shift+tab", "up":
		return m, m.moveFocus(-1)
	case "ctrl+l":
		m.here = !m.here
		return m, nil
	case "enter":
		form := m.form()
		f := m.app.Submit(m.ctx, form)
		m.pending++
		m.setStatus("resolving location...", false)
		return m, waitForFlow(f)
	}
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.fields[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	return m.fields[m.focus].Focus()
}

func (m *Model) leaveForm() {
	m.fields[m.focus].Blur()
	m.mode = modeBrowse
	m.table.Focus()
}

func (m Model) form() controller.Form {
	return controller.Form{
		Link:              strings.TrimSpace(m.fields[fieldLink].Value()),
		Description:       strings.TrimSpace(m.fields[fieldDescription].Value()),
		City:              strings.TrimSpace(m.fields[fieldCity].Value()),
		State:             strings.TrimSpace(m.fields[fieldState].Value()),
		UseDeviceLocation: m.here,
	}
}

// finishFlow reports a finished flow. The form is cleared only while it
// still holds what that flow submitted.
func (m *Model) finishFlow(submitted controller.Form, r controller.Result) {
	if !r.Added {
		m.setStatus(r.Message, true)
		return
	}
	if r.ClearForm && m.form() == submitted {
		for i := range m.fields {
			m.fields[i].SetValue("")
		}
		m.here = false
		if m.mode == modeForm {
			m.leaveForm()
		}
	}
	if r.Message != "" {
		m.setStatus(r.Message, r.Err != nil)
		return
	}
	m.setStatus("added "+r.Entry.Description, false)
}

func (m *Model) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
}

func (m *Model) setRows(rows []render.Row) {
	m.rows = rows
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{r.Description, r.DateTime, r.City, r.State, r.Latitude, r.Longitude})
	}
	m.table.SetRows(out)
}

func tableColumns(s view.Sort) []table.Column {
	cols := make([]table.Column, 0, len(columns))
	for i, c := range columns {
		title := fmt.Sprintf("%d %s", i+1, c.title)
		if c.field == s.Key {
			if s.Direction == view.Ascending {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		cols = append(cols, table.Column{Title: title, Width: c.width})
	}
	return cols
}

func (m Model) View() string {
	var b strings.Builder

	markers := m.app.Markers.Len()
	summary := fmt.Sprintf("%d shown, %d on the map", len(m.rows), markers)
	if m.pending > 0 {
		summary += fmt.Sprintf(", %d pending", m.pending)
	}
	header := m.theme.Header.Title.Render("Streams") + "  " + m.theme.Header.Summary.Render(summary)
	b.WriteString(header + "\n")

	if m.mode == modeHelp {
		b.WriteString(m.help.View() + "\n")
		b.WriteString(m.theme.Footer.Status.Render("? or esc to close"))
		return b.String()
	}

	if m.mode == modeSearch || m.search.Value() != "" {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString(m.table.View() + "\n")

	if i := m.table.Cursor(); i >= 0 && i < len(m.rows) {
		b.WriteString(m.theme.Footer.Link.Render(m.rows[i].Link) + "\n")
	}

	if m.mode == modeForm {
		lines := make([]string, 0, fieldCount+2)
		lines = append(lines, m.theme.Form.Title.Render("Add a stream"))
		for i := range m.fields {
			lines = append(lines, m.fields[i].View())
		}
		here := "[ ]"
		if m.here {
			here = "[x]"
		}
		lines = append(lines, fmt.Sprintf("%s use my location (ctrl+l)   enter save, tab next, esc close", here))
		b.WriteString(m.theme.Form.Frame.Render(strings.Join(lines, "\n")) + "\n")
	}

	status := m.status
	if m.width > 0 {
		status = wordwrap.String(status, m.width)
	}
	if m.failed {
		b.WriteString(m.theme.Footer.Error.Render(status))
	} else {
		b.WriteString(m.theme.Footer.Status.Render(status))
	}
	return b.String()
}
