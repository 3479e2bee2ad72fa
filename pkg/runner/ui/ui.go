package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/store"
	"tableflip.dev/streammap/pkg/tui"
)

type UI struct {
	App *app.App
}

func (d *UI) Do(ctx context.Context) error {
	if d.App == nil {
		return errors.New("can not start ui, no app")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := d.App.Watch(ctx); err != nil && !errors.Is(err, store.ErrWatchUnsupported) {
		_, _ = fmt.Fprintf(os.Stderr, "not watching for external changes: %v\n", err)
	}
	return tui.Run(ctx, d.App)
}
