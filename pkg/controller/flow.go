package controller

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"tableflip.dev/streammap/pkg/entry"
)

// State is a step of an entry creation flow.
type State int

const (
	Idle State = iota
	AwaitingLocation
	Resolved
	AwaitingDeviceFix
	AwaitingReverseLookup
	Persisted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingLocation:
		return "awaiting-location"
	case Resolved:
		return "resolved"
	case AwaitingDeviceFix:
		return "awaiting-device-fix"
	case AwaitingReverseLookup:
		return "awaiting-reverse-lookup"
	case Persisted:
		return "persisted"
	}
	return "unknown"
}

// Form is the create-entry form as submitted.
type Form struct {
	Link              string `json:"link" form:"link"`
	Description       string `json:"description" form:"description"`
	City              string `json:"city" form:"city"`
	State             string `json:"state" form:"state"`
	UseDeviceLocation bool   `json:"here" form:"here"`
}

// Result is the outcome of a finished flow.
type Result struct {
	Entry entry.Entry
	// Added is true when the entry reached the store, even if it could not
	// be persisted.
	Added bool
	// Message is the user facing text for Err, or a warning for a partial
	// success. Empty on a clean success.
	Message string
	Err     error
	// ClearForm is true once the flow reached Persisted.
	ClearForm bool
}

// Flow is one submission. Each flow owns a copy of its form, so concurrent
// submissions never share state.
type Flow struct {
	ID   uuid.UUID
	Form Form

	mu      sync.Mutex
	state   State
	history []State
	result  Result
	done    chan struct{}
}

func newFlow(form Form) *Flow {
	return &Flow{
		ID:      uuid.New(),
		Form:    form,
		state:   Idle,
		history: []State{Idle},
		done:    make(chan struct{}),
	}
}

// State is the current step.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// History lists every state the flow passed through, starting at Idle.
func (f *Flow) History() []State {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]State, len(f.history))
	copy(out, f.history)
	return out
}

// Done is closed when the flow finished and the OnFinish hook returned.
func (f *Flow) Done() <-chan struct{} {
	return f.done
}

// Result is only meaningful after Done is closed.
func (f *Flow) Result() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Wait blocks until the flow finishes or ctx is done.
func (f *Flow) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.Result(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (f *Flow) transition(to State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = to
	f.history = append(f.history, to)
}

func (f *Flow) finish(to State, r Result) {
	f.mu.Lock()
	f.state = to
	f.history = append(f.history, to)
	f.result = r
	f.mu.Unlock()
}

func (f *Flow) close() {
	close(f.done)
}
