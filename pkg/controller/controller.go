// Package controller turns user actions into resolved, stored entries.
package controller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/geo"
	"tableflip.dev/streammap/pkg/store"
)

// Store is where finished entries go.
type Store interface {
	Add(ctx context.Context, e entry.Entry) error
}

// Geo is the resolution capability a flow needs. *geo.Resolver implements
// it.
type Geo interface {
	Resolve(ctx context.Context, city, state string) (geo.Coordinates, error)
	CurrentPosition(ctx context.Context) (geo.Coordinates, error)
	CanReverse() bool
	ReverseResolve(ctx context.Context, c geo.Coordinates) (geo.PlaceLabel, error)
}

// InputController runs entry creation flows.
type InputController struct {
	Store Store
	Geo   Geo
	// ReverseLookup enables place names for device fixes.
	ReverseLookup bool
	// OnFinish runs after every flow, on the flow's goroutine, before Done
	// is closed.
	OnFinish func(*Flow)
	// Logger, when set, receives one line per failed flow.
	Logger *log.Logger
	// Now stamps new entries; defaults to time.Now.
	Now func() time.Time

	mu       sync.Mutex
	inFlight map[uuid.UUID]*Flow
}

// Submit starts a flow for form and returns immediately. The flow runs on
// its own goroutine; other reads of the store stay responsive meanwhile.
func (c *InputController) Submit(ctx context.Context, form Form) *Flow {
	f := newFlow(form)

	c.mu.Lock()
	if c.inFlight == nil {
		c.inFlight = make(map[uuid.UUID]*Flow)
	}
	c.inFlight[f.ID] = f
	c.mu.Unlock()

	go c.run(ctx, f)
	return f
}

// SubmitAndWait runs a flow to completion.
func (c *InputController) SubmitAndWait(ctx context.Context, form Form) Result {
	f := c.Submit(ctx, form)
	<-f.Done()
	return f.Result()
}

// Pending returns the flows that have not finished yet.
func (c *InputController) Pending() []*Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Flow, 0, len(c.inFlight))
	for _, f := range c.inFlight {
		out = append(out, f)
	}
	return out
}

func (c *InputController) run(ctx context.Context, f *Flow) {
	defer func() {
		c.mu.Lock()
		delete(c.inFlight, f.ID)
		c.mu.Unlock()
		if c.OnFinish != nil {
			c.OnFinish(f)
		}
		f.close()
	}()

	e := entry.New(f.Form.Link, f.Form.Description, c.now())
	if err := e.Validate(); err != nil {
		c.fail(f, err)
		return
	}

	var notice string
	if f.Form.UseDeviceLocation {
		f.transition(AwaitingDeviceFix)
		pos, err := c.Geo.CurrentPosition(ctx)
		if err != nil {
			c.fail(f, err)
			return
		}
		e.Latitude, e.Longitude = pos.Strings(geo.DevicePrecision)

		// Enrichment is best effort: a failed lookup leaves the labels blank.
		if c.ReverseLookup && c.Geo.CanReverse() {
			f.transition(AwaitingReverseLookup)
			label, err := c.Geo.ReverseResolve(ctx, pos)
			if err != nil {
				notice = Message(err)
				c.logf("flow %s: %v", f.ID, err)
			} else {
				e.City, e.State = label.City, label.State
			}
		}
	} else {
		e.City, e.State = f.Form.City, f.Form.State
		f.transition(AwaitingLocation)
		coords, err := c.Geo.Resolve(ctx, e.City, e.State)
		if err != nil {
			c.fail(f, err)
			return
		}
		e.Latitude, e.Longitude = coords.Strings(-1)
		f.transition(Resolved)
	}

	if err := c.Store.Add(ctx, e); err != nil {
		if !errors.Is(err, store.ErrPersistenceFailed) {
			c.fail(f, err)
			return
		}
		c.logf("flow %s: %v", f.ID, err)
		f.finish(Persisted, Result{Entry: e, Added: true, Message: Message(err), Err: err, ClearForm: true})
		return
	}
	f.finish(Persisted, Result{Entry: e, Added: true, Message: notice, ClearForm: true})
}

func (c *InputController) fail(f *Flow, err error) {
	c.logf("flow %s: %v", f.ID, err)
	f.finish(Idle, Result{Message: Message(err), Err: err})
}

func (c *InputController) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *InputController) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// Message turns a flow error into text for the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, entry.ErrMissingLink):
		return "A link is required."
	case errors.Is(err, entry.ErrMissingDescription):
		return "A description is required."
	case errors.Is(err, geo.ErrGeoLookupFailed):
		return "Error fetching latitude and longitude. Please check your city and state."
	case errors.Is(err, geo.ErrGeolocationUnavailable):
		return "Device location is not available here. Enter a city and state instead."
	case errors.Is(err, geo.ErrGeolocationDenied):
		return "Access to your location was denied. Enter a city and state instead."
	case errors.Is(err, geo.ErrGeolocationTimeout):
		return "Error fetching your location. Please try again."
	case errors.Is(err, geo.ErrReverseLookupFailed):
		return "Saved without a place name: your location could not be named."
	case errors.Is(err, store.ErrPersistenceFailed):
		return "Saved for this session only: the entry could not be written to storage."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was cancelled. Please try again."
	}
	return "Something went wrong: " + err.Error()
}
