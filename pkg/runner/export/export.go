package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/render"
)

const (
	FormatGeoJSON = "geojson"
	FormatHTML    = "html"
)

// Export writes the current map as GeoJSON or as a Leaflet page.
type Export struct {
	App    *app.App
	Format string
	// Path is the output file; empty writes to Out.
	Path string
	Out  io.Writer
}

func (n *Export) Do(ctx context.Context) (err error) {
	if n.App == nil {
		return errors.New("can not export, no app")
	}
	n.App.Refresh()

	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.Path != "" {
		var f *os.File
		if f, err = os.Create(n.Path); err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}

	switch n.Format {
	case "", FormatGeoJSON:
		err = render.WriteGeoJSON(out, n.App.Markers)
	case FormatHTML:
		err = render.WritePage(out, n.App.Page("", ""))
	default:
		return fmt.Errorf("unknown map format %q", n.Format)
	}
	if err == nil && n.Path != "" {
		_, _ = fmt.Fprintf(os.Stderr, "wrote %d markers to %s\n", n.App.Markers.Len(), n.Path)
	}
	return err
}
