package list

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/render"
	"tableflip.dev/streammap/pkg/view"
)

// List prints the projected entries as a table or as JSON.
type List struct {
	App        *app.App
	Sort       view.Sort
	Search     string
	JSON       bool
	Hyperlinks bool
	Out        io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not list, no app")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	n.App.View.SetFilter(n.Search)
	projected, err := n.App.SetSort(n.Sort)
	if err != nil {
		return err
	}

	if n.JSON {
		b, err := json.MarshalIndent(projected, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	t := &render.Table{Out: out, Hyperlinks: n.Hyperlinks}
	t.Render(projected)
	_, _ = fmt.Fprintf(out, "%d streams, %d on the map\n", len(projected), n.App.Markers.Len())
	return nil
}
