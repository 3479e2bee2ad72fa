package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

const tempDirName = ".tmp"

// NewDiskv returns a Blob that keeps one file per blob name under basePath.
func NewDiskv(basePath string) (*Diskv, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Diskv{
		d: diskv.New(diskv.Options{
			BasePath: basePath,
			// Writes land in TempDir first and are renamed into place, so a
			// reader never sees a half written collection.
			TempDir:   filepath.Join(basePath, tempDirName),
			Transform: flatTransform,
		}),
		basePath: basePath,
	}, nil
}

// Diskv is the default file backed Blob.
type Diskv struct {
	d        *diskv.Diskv
	basePath string
}

// BasePath is the directory holding the blob files.
func (p *Diskv) BasePath() string {
	return p.basePath
}

// Path returns the file that backs name.
func (p *Diskv) Path(name string) string {
	return filepath.Join(p.basePath, name)
}

func (p *Diskv) Get(_ context.Context, name string) ([]byte, bool, error) {
	if !p.d.Has(name) {
		return nil, false, nil
	}
	// Read direct: other processes may have rewritten the file.
	rc, err := p.d.ReadStream(name, true)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = rc.Close() }()
	val, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (p *Diskv) Set(_ context.Context, name string, data []byte) error {
	return p.d.Write(name, data)
}

func (p *Diskv) Delete(_ context.Context, name string) error {
	if !p.d.Has(name) {
		return nil
	}
	return p.d.Erase(name)
}

func flatTransform(string) []string {
	return []string{}
}
