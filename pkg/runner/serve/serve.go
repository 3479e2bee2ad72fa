package serve

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/server"
	"tableflip.dev/streammap/pkg/store"
)

type Serve struct {
	App   *app.App
	Addr  string
	Title string
}

func (n *Serve) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not serve, no app")
	}
	if err := n.App.Watch(ctx); err != nil && !errors.Is(err, store.ErrWatchUnsupported) {
		_, _ = fmt.Fprintf(os.Stderr, "not watching for external changes: %v\n", err)
	}
	return server.New(n.App, n.Title).Start(ctx, n.Addr)
}
