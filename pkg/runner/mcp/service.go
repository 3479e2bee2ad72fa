// Package mcp exposes streams to Model Context Protocol clients.
package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/controller"
	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/render"
	"tableflip.dev/streammap/pkg/view"
)

// Service holds the operations shared by tools and resources.
type Service struct {
	App *app.App
}

// ListOptions select and order streams. Zero values mean the default sort,
// no filter and no limit.
type ListOptions struct {
	Sort      string
	Ascending bool
	Query     string
	Limit     int
}

// AddResult is the outcome of add_stream.
type AddResult struct {
	FlowID  string       `json:"flowId"`
	Added   bool         `json:"added"`
	Message string       `json:"message,omitempty"`
	History []string     `json:"history"`
	Entry   *entry.Entry `json:"entry,omitempty"`
}

func NewService(a *app.App) *Service {
	return &Service{App: a}
}

// ListStreams projects the store without touching the shared view.
func (s *Service) ListStreams(ctx context.Context, o ListOptions) ([]entry.Entry, error) {
	if s.App == nil {
		return nil, errors.New("app is not configured")
	}
	sort := view.DefaultSort()
	if o.Sort != "" {
		if !view.ValidKey(o.Sort) {
			return nil, fmt.Errorf("unknown sort column %q", o.Sort)
		}
		sort = view.Sort{Key: o.Sort, Direction: view.Descending}
	}
	if o.Ascending {
		sort.Direction = view.Ascending
	}
	out := view.Project(s.App.Store.All(), sort, o.Query)
	if o.Limit > 0 && len(out) > o.Limit {
		out = out[:o.Limit]
	}
	return out, nil
}

// AddStream runs an entry creation flow to completion.
func (s *Service) AddStream(ctx context.Context, form controller.Form) (*AddResult, error) {
	if s.App == nil {
		return nil, errors.New("app is not configured")
	}
	f := s.App.Submit(ctx, form)
	r, err := f.Wait(ctx)
	if err != nil {
		return nil, err
	}
	res := &AddResult{FlowID: f.ID.String(), Added: r.Added, Message: r.Message}
	for _, st := range f.History() {
		res.History = append(res.History, st.String())
	}
	if r.Added {
		e := r.Entry
		res.Entry = &e
	}
	return res, nil
}

// MapGeoJSON is the marker set of the current view.
func (s *Service) MapGeoJSON() ([]byte, error) {
	if s.App == nil {
		return nil, errors.New("app is not configured")
	}
	var buf bytes.Buffer
	if err := render.WriteGeoJSON(&buf, s.App.Markers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
