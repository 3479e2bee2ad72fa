// Package store owns the canonical entry collection and its persisted blob.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/streammap/pkg/entry"
)

// DefaultBlobName is the blob the collection is persisted under.
const DefaultBlobName = "streamEntries"

var (
	// ErrCorruptData means the persisted blob could not be parsed. The
	// collection is left empty and needs seeding.
	ErrCorruptData = errors.New("store: persisted entries are corrupt")
	// ErrPersistenceFailed means a write was rejected. The in-memory
	// collection still holds the change.
	ErrPersistenceFailed = errors.New("store: failed to persist entries")
	// ErrReadFailed means the blob could not be read at all. The collection
	// is left as it was and is not reseeded.
	ErrReadFailed = errors.New("store: failed to read entries")
)

// EntryStore is the single owner of the entry collection. All mutations
// rewrite the whole blob.
type EntryStore struct {
	mu        sync.RWMutex
	blob      Blob
	name      string
	entries   []entry.Entry
	needsSeed bool
	// synced is the blob content last read or written by this store.
	synced []byte
}

// New returns an empty store persisting to blob under name.
func New(blob Blob, name string) *EntryStore {
	if name == "" {
		name = DefaultBlobName
	}
	return &EntryStore{blob: blob, name: name}
}

// Name is the blob name.
func (s *EntryStore) Name() string {
	return s.name
}

// Blob returns the backing blob.
func (s *EntryStore) Blob() Blob {
	return s.blob
}

// Load replaces the in-memory collection with the persisted one. A missing
// blob leaves the collection empty; a corrupt one does too, and the error
// wraps ErrCorruptData. Either way NeedsSeeding reports true afterwards.
// A blob that cannot be read returns an error wrapping ErrReadFailed and
// changes nothing.
func (s *EntryStore) Load(ctx context.Context) ([]entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.blob.Get(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrReadFailed, s.name, err)
	}
	if err := s.applyLocked(data, ok); err != nil {
		return nil, err
	}
	return cloneAll(s.entries), nil
}

// Reload re-reads the blob when it changed since this store last read or
// wrote it, and reports whether it did.
func (s *EntryStore) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.blob.Get(ctx, s.name)
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", ErrReadFailed, s.name, err)
	}
	if ok && s.synced != nil && bytes.Equal(data, s.synced) {
		return false, nil
	}
	return true, s.applyLocked(data, ok)
}

func (s *EntryStore) applyLocked(data []byte, ok bool) error {
	if !ok {
		s.entries = nil
		s.needsSeed = true
		s.synced = nil
		return nil
	}
	entries, err := Decode(data)
	if err != nil {
		s.entries = nil
		s.needsSeed = true
		s.synced = nil
		return err
	}
	s.entries = entries
	s.needsSeed = false
	s.synced = data
	return nil
}

// NeedsSeeding reports whether the last Load found no usable data.
func (s *EntryStore) NeedsSeeding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.needsSeed
}

// Add appends e and persists the full collection. On a persistence failure
// the entry stays in memory and the returned error wraps
// ErrPersistenceFailed.
func (s *EntryStore) Add(ctx context.Context, e entry.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e.Clone())
	return s.persistLocked(ctx)
}

// Replace swaps the whole collection and persists it.
func (s *EntryStore) Replace(ctx context.Context, entries []entry.Entry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = cloneAll(entries)
	s.needsSeed = false
	return s.persistLocked(ctx)
}

// Clear drops every entry and removes the blob.
func (s *EntryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.needsSeed = true
	if err := s.blob.Delete(ctx, s.name); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrPersistenceFailed, s.name, err)
	}
	s.synced = nil
	return nil
}

// All returns a copy of the collection in insertion order.
func (s *EntryStore) All() []entry.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.entries)
}

// Len is the number of entries held in memory.
func (s *EntryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *EntryStore) persistLocked(ctx context.Context) error {
	data, err := Encode(s.entries)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistenceFailed, err)
	}
	if err := s.blob.Set(ctx, s.name, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistenceFailed, s.name, err)
	}
	s.synced = data
	return nil
}

// Encode serializes a collection the way it is persisted.
func Encode(entries []entry.Entry) ([]byte, error) {
	if entries == nil {
		entries = []entry.Entry{}
	}
	return json.Marshal(entries)
}

// Decode parses a persisted collection. Failures wrap ErrCorruptData.
func Decode(data []byte) ([]entry.Entry, error) {
	var entries []entry.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return entries, nil
}

func cloneAll(in []entry.Entry) []entry.Entry {
	out := make([]entry.Entry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
