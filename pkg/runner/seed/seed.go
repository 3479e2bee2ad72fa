package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/streammap/pkg/app"
)

// Seed adds the example streams that are missing.
type Seed struct {
	App *app.App
	Out io.Writer
}

func (n *Seed) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not seed, no app")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	added, err := n.App.Seed(ctx)
	_, _ = fmt.Fprintf(out, "seeded %d streams, %d total\n", added, n.App.Store.Len())
	return err
}
