package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/geo"
	"tableflip.dev/streammap/pkg/store"
)

type fakeGeo struct {
	forward    geo.Coordinates
	forwardErr error
	device     geo.Coordinates
	deviceErr  error
	label      geo.PlaceLabel
	reverseErr error
	reverse    bool

	// gate, when set, holds forward lookups until closed.
	gate chan struct{}
}

func (f *fakeGeo) Resolve(ctx context.Context, city, state string) (geo.Coordinates, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return geo.Coordinates{}, ctx.Err()
		}
	}
	return f.forward, f.forwardErr
}

func (f *fakeGeo) CurrentPosition(context.Context) (geo.Coordinates, error) {
	return f.device, f.deviceErr
}

func (f *fakeGeo) CanReverse() bool { return f.reverse }

func (f *fakeGeo) ReverseResolve(context.Context, geo.Coordinates) (geo.PlaceLabel, error) {
	return f.label, f.reverseErr
}

type rejectingBlob struct {
	*store.Memory
}

func (rejectingBlob) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

var fixedNow = time.Date(2024, time.June, 1, 15, 4, 0, 0, time.UTC)

func newController(g Geo, s Store) *InputController {
	return &InputController{Store: s, Geo: g, ReverseLookup: true, Now: func() time.Time { return fixedNow }}
}

func assertHistory(t *testing.T, f *Flow, want ...State) {
	t.Helper()
	got := f.History()
	if len(got) != len(want) {
		t.Fatalf("expected history %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected history %v, got %v", want, got)
		}
	}
}

func TestManualSubmission(t *testing.T) {
	s := store.New(store.NewMemory(), "")
	c := newController(&fakeGeo{forward: geo.Coordinates{Latitude: 39.1911128, Longitude: -106.8175387}}, s)

	f := c.Submit(context.Background(), Form{Link: "https://l", Description: "Final", City: "Aspen", State: "CO"})
	r, err := f.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if r.Err != nil || !r.Added || !r.ClearForm {
		t.Fatalf("unexpected result %+v", r)
	}
	assertHistory(t, f, Idle, AwaitingLocation, Resolved, Persisted)

	all := s.All()
	if len(all) != 1 {
		t.Fatalf("expected one entry, got %d", len(all))
	}
	e := all[0]
	if e.City != "Aspen" || e.State != "CO" || e.Latitude != "39.1911128" || e.Longitude != "-106.8175387" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.Created == nil || !e.Created.Equal(fixedNow) {
		t.Fatalf("expected canonical timestamp %v, got %v", fixedNow, e.Created)
	}
	if e.DateTime != fixedNow.Local().Format(entry.DisplayLayout) {
		t.Fatalf("unexpected display time %q", e.DateTime)
	}
}

func TestManualSubmissionGeocodeFailure(t *testing.T) {
	s := store.New(store.NewMemory(), "")
	c := newController(&fakeGeo{forwardErr: geo.ErrGeoLookupFailed}, s)

	form := Form{Link: "https://l", Description: "Lost", City: "Nowhereville", State: "ZZ"}
	f := c.Submit(context.Background(), form)
	r, _ := f.Wait(context.Background())

	if !errors.Is(r.Err, geo.ErrGeoLookupFailed) {
		t.Fatalf("expected ErrGeoLookupFailed, got %v", r.Err)
	}
	if r.Added || r.ClearForm {
		t.Fatalf("failed flow must not add or clear the form: %+v", r)
	}
	if r.Message == "" {
		t.Fatalf("expected a user facing message")
	}
	if f.State() != Idle {
		t.Fatalf("expected flow back at idle, got %s", f.State())
	}
	if f.Form != form {
		t.Fatalf("form fields must be retained, got %+v", f.Form)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no entry added, got %d", s.Len())
	}
}

func TestDeviceSubmissionReverseFailure(t *testing.T) {
	s := store.New(store.NewMemory(), "")
	g := &fakeGeo{
		device:     geo.Coordinates{Latitude: 33.015576, Longitude: -96.997158},
		reverse:    true,
		reverseErr: geo.ErrReverseLookupFailed,
	}
	c := newController(g, s)

	f := c.Submit(context.Background(), Form{Link: "https://l", Description: "Live", City: "typed", State: "ignored", UseDeviceLocation: true})
	r, _ := f.Wait(context.Background())

	if r.Err != nil || !r.Added {
		t.Fatalf("reverse failure must not fail the flow: %+v", r)
	}
	if r.Message == "" {
		t.Fatalf("expected a notice about the missing place name")
	}
	assertHistory(t, f, Idle, AwaitingDeviceFix, AwaitingReverseLookup, Persisted)

	all := s.All()
	if len(all) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(all))
	}
	e := all[0]
	if e.Latitude != "33.015576" || e.Longitude != "-96.997158" {
		t.Fatalf("expected populated coordinates, got %q %q", e.Latitude, e.Longitude)
	}
	if e.City != "" || e.State != "" {
		t.Fatalf("expected empty place labels, got %q %q", e.City, e.State)
	}
}

func TestDeviceSubmissionWithReverseLabel(t *testing.T) {
	s := store.New(store.NewMemory(), "")
	g := &fakeGeo{
		device:  geo.Coordinates{Latitude: 39.19, Longitude: -106.82},
		reverse: true,
		label:   geo.PlaceLabel{City: "Aspen", State: "CO"},
	}
	r := newController(g, s).SubmitAndWait(context.Background(), Form{Link: "https://l", Description: "Live", UseDeviceLocation: true})
	if r.Err != nil || r.Message != "" {
		t.Fatalf("unexpected result %+v", r)
	}
	if e := s.All()[0]; e.City != "Aspen" || e.State != "CO" || e.Latitude != "39.190000" {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestDeviceSubmissionWithoutReverse(t *testing.T) {
	s := store.New(store.NewMemory(), "")
	c := newController(&fakeGeo{device: geo.Coordinates{Latitude: 1, Longitude: 2}}, s)
	f := c.Submit(context.Background(), Form{Link: "https://l", Description: "Live", UseDeviceLocation: true})
	_, _ = f.Wait(context.Background())
	assertHistory(t, f, Idle, AwaitingDeviceFix, Persisted)
}

func TestDeviceFailures(t *testing.T) {
	for _, err := range []error{geo.ErrGeolocationUnavailable, geo.ErrGeolocationDenied, geo.ErrGeolocationTimeout} {
		s := store.New(store.NewMemory(), "")
		r := newController(&fakeGeo{deviceErr: err}, s).
			SubmitAndWait(context.Background(), Form{Link: "https://l", Description: "Live", UseDeviceLocation: true})
		if !errors.Is(r.Err, err) || r.Added || r.Message == "" {
			t.Fatalf("%v: unexpected result %+v", err, r)
		}
		if s.Len() != 0 {
			t.Fatalf("%v: no entry may be stored", err)
		}
	}
}

func TestValidationFailure(t *testing.T) {
	s := store.New(store.NewMemory(), "")
	r := newController(&fakeGeo{}, s).SubmitAndWait(context.Background(), Form{Description: "no link", City: "Aspen"})
	if !errors.Is(r.Err, entry.ErrMissingLink) || r.Added {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestPersistenceFailureKeepsEntryLive(t *testing.T) {
	s := store.New(rejectingBlob{store.NewMemory()}, "")
	r := newController(&fakeGeo{forward: geo.Coordinates{Latitude: 1, Longitude: 1}}, s).
		SubmitAndWait(context.Background(), Form{Link: "https://l", Description: "d", City: "c", State: "s"})
	if !errors.Is(r.Err, store.ErrPersistenceFailed) {
		t.Fatalf("expected ErrPersistenceFailed, got %v", r.Err)
	}
	if !r.Added || !r.ClearForm || s.Len() != 1 {
		t.Fatalf("entry should stay live for the session: %+v len=%d", r, s.Len())
	}
}

func TestConcurrentFlowsKeepTheirOwnForms(t *testing.T) {
	s := store.New(store.NewMemory(), "")
	g := &fakeGeo{forward: geo.Coordinates{Latitude: 1, Longitude: 1}, gate: make(chan struct{})}

	var mu sync.Mutex
	finished := 0
	done := make(chan struct{}, 2)
	c := newController(g, s)
	c.OnFinish = func(*Flow) {
		mu.Lock()
		finished++
		mu.Unlock()
		done <- struct{}{}
	}

	ctx := context.Background()
	first := c.Submit(ctx, Form{Link: "https://one", Description: "one", City: "A"})
	second := c.Submit(ctx, Form{Link: "https://two", Description: "two", City: "B"})

	if n := len(c.Pending()); n != 2 {
		t.Fatalf("expected 2 pending flows, got %d", n)
	}
	if first.ID == second.ID {
		t.Fatalf("flows must have distinct ids")
	}

	// Reads stay available while flows wait on resolution.
	if s.Len() != 0 {
		t.Fatalf("nothing should be stored yet")
	}

	close(g.gate)
	<-done
	<-done

	r1, r2 := first.Result(), second.Result()
	if r1.Entry.Description != "one" || r1.Entry.City != "A" || r2.Entry.Description != "two" || r2.Entry.City != "B" {
		t.Fatalf("flows mixed their data: %+v / %+v", r1.Entry, r2.Entry)
	}
	if s.Len() != 2 || finished != 2 {
		t.Fatalf("expected both entries stored, len=%d finished=%d", s.Len(), finished)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	g := &fakeGeo{gate: make(chan struct{})}
	defer close(g.gate)
	c := newController(g, store.New(store.NewMemory(), ""))
	f := c.Submit(context.Background(), Form{Link: "https://l", Description: "d"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if f.State() != AwaitingLocation {
		t.Fatalf("a stuck lookup leaves the flow waiting, got %s", f.State())
	}
}

func TestMessages(t *testing.T) {
	if Message(nil) != "" {
		t.Fatalf("nil error has no message")
	}
	for _, err := range []error{
		geo.ErrGeoLookupFailed, geo.ErrGeolocationUnavailable, geo.ErrGeolocationDenied,
		geo.ErrGeolocationTimeout, geo.ErrReverseLookupFailed, store.ErrPersistenceFailed,
		errors.New("other"),
	} {
		if Message(err) == "" {
			t.Fatalf("missing message for %v", err)
		}
	}
}

func TestOnFinishCompletesBeforeDone(t *testing.T) {
	s := store.New(store.NewMemory(), "")
	c := newController(&fakeGeo{forward: geo.Coordinates{Latitude: 1, Longitude: 1}}, s)

	var mu sync.Mutex
	redrawn := 0
	c.OnFinish = func(*Flow) {
		// a slow redraw still has to land before waiters wake up
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		redrawn++
		mu.Unlock()
	}

	for i := 0; i < 5; i++ {
		r := c.SubmitAndWait(context.Background(), Form{Link: "https://l", Description: "d", City: "c", State: "s"})
		if !r.Added {
			t.Fatalf("flow %d not added: %+v", i, r)
		}
		mu.Lock()
		got := redrawn
		mu.Unlock()
		if got != i+1 {
			t.Fatalf("Done closed before the hook finished: %d redraws after %d flows", got, i+1)
		}
	}
	if n := len(c.Pending()); n != 0 {
		t.Fatalf("expected no pending flows, got %d", n)
	}
}
