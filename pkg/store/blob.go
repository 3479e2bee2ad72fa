package store

import (
	"context"
	"sync"
)

// Blob is the persistence capability the entry store is written against: a
// named string blob that can be read, replaced and removed.
type Blob interface {
	// Get returns the blob contents. ok is false when nothing is stored
	// under name.
	Get(ctx context.Context, name string) (data []byte, ok bool, err error)
	Set(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// Closer is implemented by blobs that hold connections.
type Closer interface {
	Close() error
}

// NewMemory returns a process-local blob. Nothing survives the process.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Memory is a map backed Blob.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (m *Memory) Get(_ context.Context, name string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[name]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (m *Memory) Set(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, name)
	return nil
}
