package store

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures the blob backend.
type Options struct {
	Backend   string
	BasePath  string
	BlobName  string
	SQLiteDSN string
	Redis     RedisOptions
}

// Open builds the configured blob and an entry store on top of it. The
// returned close func releases backend connections.
func Open(ctx context.Context, opts Options) (*EntryStore, func() error, error) {
	var (
		blob Blob
		err  error
	)
	switch opts.Backend {
	case "", BackendDiskv:
		blob, err = NewDiskv(opts.BasePath)
	case BackendSQLite:
		blob, err = NewSQLite(ctx, opts.SQLiteDSN)
	case BackendRedis:
		blob, err = NewRedis(ctx, opts.Redis)
	case BackendMemory:
		blob = NewMemory()
	default:
		return nil, nil, fmt.Errorf("store: unsupported backend: %s", opts.Backend)
	}
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() error { return nil }
	if c, ok := blob.(Closer); ok {
		closeFn = c.Close
	}
	return New(blob, opts.BlobName), closeFn, nil
}
