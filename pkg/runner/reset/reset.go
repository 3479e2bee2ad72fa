package reset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/streammap/pkg/app"
)

// Reset deletes every stored entry. The next start seeds the examples
// again.
type Reset struct {
	App *app.App
	Out io.Writer
}

func (n *Reset) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not clear, no app")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	removed := n.App.Store.Len()
	if err := n.App.Clear(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "removed %d streams\n", removed)
	return nil
}
