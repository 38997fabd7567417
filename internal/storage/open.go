// Package storage provides the blob backends saves are written to
package storage

import (
	"fmt"
	"io"

	"github.com/user/memory-beacon/config"
	"github.com/user/memory-beacon/internal/interfaces"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the backend selected by cfg.Driver. The closer must be
// called on shutdown.
func Open(cfg config.StorageConfig) (interfaces.BlobStore, io.Closer, error) {
	switch cfg.Driver {
	case "", "file":
		store, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	case "sqlite":
		store, err := OpenSQLite(cfg.DSN, WithMkdirAll())
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case "memory":
		return NewMemoryStore(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
