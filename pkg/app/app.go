package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"tableflip.dev/streammap/pkg/controller"
	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/render"
	"tableflip.dev/streammap/pkg/seed"
	"tableflip.dev/streammap/pkg/store"
	"tableflip.dev/streammap/pkg/view"
)

// App owns one session: the store, the view state, both renderers and the
// input controller. UIs and CLIs share it instead of package level state.
type App struct {
	Store   *store.EntryStore
	View    *view.Projector
	Table   *render.Table
	Markers *render.Markers
	Input   *controller.InputController
	Logger  *log.Logger

	mapView  *render.Map
	renderMu sync.Mutex
	changed  chan struct{}
}

// Options configures New.
type Options struct {
	Store *store.EntryStore
	Geo   controller.Geo
	// ReverseLookup names device fixes.
	ReverseLookup bool
	// Table, when nil, renders rows without printing them.
	Table  *render.Table
	Logger *log.Logger
}

// New wires an App. Nothing is loaded until Start.
func New(opts Options) *App {
	if opts.Table == nil {
		opts.Table = &render.Table{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr, "streammap: ", log.LstdFlags)
	}
	markers := render.NewMarkers()
	a := &App{
		Store:   opts.Store,
		View:    view.NewProjector(),
		Table:   opts.Table,
		Markers: markers,
		Logger:  opts.Logger,
		mapView: &render.Map{Handle: markers},
		changed: make(chan struct{}, 1),
	}
	a.Input = &controller.InputController{
		Store:         opts.Store,
		Geo:           opts.Geo,
		ReverseLookup: opts.ReverseLookup,
		Logger:        opts.Logger,
		OnFinish: func(f *controller.Flow) {
			if f.Result().Added {
				a.Refresh()
			}
		},
	}
	return a
}

// Start loads the store, seeds it when it was missing or corrupt and
// renders once. Corrupt data is logged, not returned. A blob that cannot be
// read fails Start and nothing is seeded.
func (a *App) Start(ctx context.Context) error {
	if a.Store == nil {
		return errors.New("app: no store configured")
	}
	if _, err := a.Store.Load(ctx); err != nil {
		if !errors.Is(err, store.ErrCorruptData) {
			return err
		}
		a.Logger.Printf("starting empty: %v", err)
	}
	if a.Store.NeedsSeeding() {
		if _, err := a.Seed(ctx); err != nil {
			a.Logger.Printf("seeding: %v", err)
		}
	}
	a.Refresh()
	return nil
}

// Seed adds the example records that are not present yet, redrawing after
// each one.
func (a *App) Seed(ctx context.Context) (int, error) {
	return seed.Seed(ctx, a.Store, seed.Records(), func() { a.Refresh() })
}

// Refresh projects the store once and redraws the table and the map from
// that projection. It returns the projection.
func (a *App) Refresh() []entry.Entry {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()

	projected := a.View.Project(a.Store.All())
	a.Table.Render(projected)
	a.mapView.Render(projected)

	select {
	case a.changed <- struct{}{}:
	default:
	}
	return projected
}

// Rows returns the rows of the last redraw.
func (a *App) Rows() []render.Row {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()
	return a.Table.Rows()
}

// Changed receives after redraws. Bursts collapse into one notification.
func (a *App) Changed() <-chan struct{} {
	return a.changed
}

// SetFilter applies search text and redraws.
func (a *App) SetFilter(text string) []entry.Entry {
	a.View.SetFilter(text)
	return a.Refresh()
}

// ToggleSort handles a click on the column key and redraws.
func (a *App) ToggleSort(key string) ([]entry.Entry, error) {
	if !view.ValidKey(key) {
		return nil, fmt.Errorf("app: unknown sort column %q", key)
	}
	a.View.Toggle(key)
	return a.Refresh(), nil
}

// SetSort replaces the sort and redraws.
func (a *App) SetSort(s view.Sort) ([]entry.Entry, error) {
	if !view.ValidKey(s.Key) {
		return nil, fmt.Errorf("app: unknown sort column %q", s.Key)
	}
	a.View.SetSort(s)
	return a.Refresh(), nil
}

// Submit starts an entry creation flow. The views redraw when it adds an
// entry.
func (a *App) Submit(ctx context.Context, form controller.Form) *controller.Flow {
	return a.Input.Submit(ctx, form)
}

// Clear removes every entry and redraws.
func (a *App) Clear(ctx context.Context) error {
	err := a.Store.Clear(ctx)
	a.Refresh()
	return err
}

// Page snapshots the current rendering for the HTML front end.
func (a *App) Page(title, message string) render.Page {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()

	s := a.View.Sort()
	p := render.NewPage(title, a.Table, a.Markers)
	p.Filter = a.View.Filter()
	p.Columns = render.Columns(s.Key, string(s.Direction))
	p.Message = message
	return p
}

// Watch reloads and redraws whenever the persisted blob changes outside of
// this process, until ctx is done. Backends that cannot be watched return
// store.ErrWatchUnsupported.
func (a *App) Watch(ctx context.Context) error {
	events, err := a.Store.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for range events {
			changed, err := a.Store.Reload(ctx)
			if err != nil {
				a.Logger.Printf("reload: %v", err)
				continue
			}
			if changed {
				a.Refresh()
			}
		}
	}()
	return nil
}
