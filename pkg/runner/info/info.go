package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/config"
	"tableflip.dev/streammap/pkg/store"
)

type Info struct {
	Config *config.Config
	App    *app.App
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("STREAMMAP_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "STREAMMAP_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "STREAMMAP_CONFIG_PATH env var not set")
	}
	if n.Config == nil {
		return errors.New("no config loaded")
	}

	_, _ = fmt.Fprintln(out, "backend:", n.Config.Backend)
	switch n.Config.Backend {
	case store.BackendSQLite:
		_, _ = fmt.Fprintln(out, "sqlite.dsn:", n.Config.SQLiteDSN)
	case store.BackendRedis:
		_, _ = fmt.Fprintln(out, "redis.addr:", n.Config.Redis.Addr)
	default:
		_, _ = fmt.Fprintln(out, "path:", n.Config.Path)
	}
	_, _ = fmt.Fprintln(out, "blob:", n.Config.Blob)
	_, _ = fmt.Fprintln(out, "geo.offline:", n.Config.Offline)
	if n.Config.Device != nil {
		_, _ = fmt.Fprintln(out, "device:", n.Config.Device.String())
	}

	if n.App == nil {
		return errors.New("failed to open the store")
	}
	_, _ = fmt.Fprintf(out, "streams: %d, on the map: %d\n", n.App.Store.Len(), n.App.Markers.Len())
	return nil
}
