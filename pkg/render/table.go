// Package render draws a projected sequence of entries as a table and as
// map markers. Every Render call is a full redraw.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/streammap/pkg/entry"
)

// Row is one table row. Missing values are empty strings.
type Row struct {
	Description string `json:"description"`
	Link        string `json:"link"`
	DateTime    string `json:"dateTime"`
	City        string `json:"city"`
	State       string `json:"state"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
}

// RowFor builds the row shown for e.
func RowFor(e entry.Entry) Row {
	return Row{
		Description: e.Description,
		Link:        e.Link,
		DateTime:    e.DateTime,
		City:        e.City,
		State:       e.State,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
	}
}

// Headers are the table column titles, keyed by the entry field they show.
var Headers = []struct {
	Field string
	Title string
}{
	{entry.FieldDescription, "Stream"},
	{entry.FieldLink, "Link"},
	{entry.FieldDateTime, "Date/Time"},
	{entry.FieldCity, "City"},
	{entry.FieldState, "State"},
	{entry.FieldLatitude, "Latitude"},
	{entry.FieldLongitude, "Longitude"},
}

// Table renders rows to a terminal. With Hyperlinks set the description is
// emitted as an OSC 8 hyperlink and the link column is dropped.
type Table struct {
	Out        io.Writer
	Hyperlinks bool

	rows []Row
}

// Render replaces the displayed row set with entries.
func (t *Table) Render(entries []entry.Entry) {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, RowFor(e))
	}
	t.rows = rows
	if t.Out != nil {
		_, _ = fmt.Fprintln(t.Out, t.table())
	}
}

// Rows returns the rows of the last Render.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table) table() *uitable.Table {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true

	header := make([]interface{}, 0, len(Headers))
	for _, h := range Headers {
		if t.Hyperlinks && h.Field == entry.FieldLink {
			continue
		}
		header = append(header, bold.Sprint(h.Title))
	}
	tbl.AddRow(header...)

	for _, r := range t.rows {
		if t.Hyperlinks {
			tbl.AddRow(hyperlink(r.Link, r.Description), r.DateTime, r.City, r.State, r.Latitude, r.Longitude)
			continue
		}
		tbl.AddRow(r.Description, r.Link, r.DateTime, r.City, r.State, r.Latitude, r.Longitude)
	}
	return tbl
}

func hyperlink(url, label string) string {
	return "\x1b]8;;" + url + "\x1b\\" + label + "\x1b]8;;\x1b\\"
}
