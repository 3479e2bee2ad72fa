package render

import (
	"embed"
	"html/template"
	"io"

	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/geo"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Column is a sortable table header on the page.
type Column struct {
	Field  string
	Title  string
	Active bool
	// Next is the direction a click on the header will select.
	Next string
	Arrow string
}

// Page is everything the Leaflet page needs: the table rows and the markers
// of one projection.
type Page struct {
	Title   string
	Filter  string
	Columns []Column
	Rows    []Row
	Markers []Marker
	Center  geo.Coordinates
	Zoom    int
	// Message is a flash line shown above the form.
	Message string
}

// NewPage assembles a page from a rendered table and marker handle.
func NewPage(title string, t *Table, m *Markers) Page {
	markers, center, zoom := m.Snapshot()
	if markers == nil {
		markers = []Marker{}
	}
	return Page{
		Title:   title,
		Rows:    t.Rows(),
		Markers: markers,
		Center:  center,
		Zoom:    zoom,
	}
}

// WritePage renders p as a self-contained HTML document with a Leaflet map
// over OpenStreetMap tiles.
func WritePage(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "Streams"
	}
	return pageTemplate.Execute(w, p)
}

// Columns builds the sortable page headers for the active sort. Clicking the
// active column flips its direction; any other column starts descending.
func Columns(activeKey, activeDir string) []Column {
	cols := make([]Column, 0, len(Headers))
	for _, h := range Headers {
		if h.Field == entry.FieldLink {
			continue
		}
		c := Column{Field: h.Field, Title: h.Title, Next: "desc"}
		if h.Field == activeKey {
			c.Active = true
			if activeDir == "asc" {
				c.Arrow = "▲"
			} else {
				c.Arrow = "▼"
				c.Next = "asc"
			}
		}
		cols = append(cols, c)
	}
	return cols
}
