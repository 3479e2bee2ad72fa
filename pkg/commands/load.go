package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/config"
	"tableflip.dev/streammap/pkg/store"
)

// loadApp reads the config, opens the store and starts an app on it. The
// returned func releases the store.
func loadApp(ctx context.Context) (*app.App, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	s, closeStore, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, cfg, nil, err
	}
	done := func() {
		if err := closeStore(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "closing store: %v\n", err)
		}
	}

	a := app.New(app.Options{
		Store:         s,
		Geo:           cfg.Resolver(),
		ReverseLookup: cfg.Reverse,
	})
	if err := a.Start(ctx); err != nil {
		done()
		return nil, cfg, nil, err
	}
	return a, cfg, done, nil
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
