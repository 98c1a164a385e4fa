package storage

import (
	"context"
	"fmt"
	"time"
)

const (
	BackendMongo  = "mongo"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Options struct {
	Backend string

	MongoURL      string
	MongoDatabase string
	Timeout       time.Duration

	Dir        string // file backend
	SQLitePath string
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Provider, error) {
	switch opts.Backend {
	case BackendMongo:
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		return OpenMongo(ctx, opts.MongoURL, opts.MongoDatabase, timeout)
	case BackendFile:
		return OpenFiles(opts.Dir)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.SQLitePath)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
