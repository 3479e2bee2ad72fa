package add

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/controller"
)

type Add struct {
	App  *app.App
	Form controller.Form
	JSON bool
	Out  io.Writer
}

type result struct {
	ID      string   `json:"id"`
	Added   bool     `json:"added"`
	Message string   `json:"message,omitempty"`
	History []string `json:"history"`
	Entry   any      `json:"entry,omitempty"`
}

func (n *Add) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not add, no app")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	f := n.App.Submit(ctx, n.Form)
	r, err := f.Wait(ctx)
	if err != nil {
		return err
	}

	if n.JSON {
		res := result{ID: f.ID.String(), Added: r.Added, Message: r.Message}
		for _, s := range f.History() {
			res.History = append(res.History, s.String())
		}
		if r.Added {
			res.Entry = r.Entry
		}
		b, err := json.Marshal(res)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
	} else if r.Added {
		_, _ = fmt.Fprintf(out, "%s %s (%s, %s)\n", color.GreenString("added"), r.Entry.Description, r.Entry.Latitude, r.Entry.Longitude)
		if r.Message != "" {
			_, _ = fmt.Fprintln(out, color.YellowString(r.Message))
		}
	}

	if !r.Added {
		return fmt.Errorf("%s: %w", r.Message, r.Err)
	}
	return nil
}
