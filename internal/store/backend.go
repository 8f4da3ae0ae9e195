package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend persists the serialized sequence as a single blob.
//
// Read returns (nil, nil) when nothing has been written yet. Write must replace the blob
// atomically: readers never observe a partial write.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, raw []byte) error
	Close() error
}

const (
	BackendAuto   = "auto"
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

const (
	sqliteFileName = "timeline.sqlite"
	blobFileName   = BlobKey + ".json"
)

// DetectBackend picks the backend for dir: an existing database, then an existing blob file,
// otherwise SQLite.
func DetectBackend(dir string) string {
	if _, err := os.Stat(filepath.Join(dir, sqliteFileName)); err == nil {
		return BackendSQLite
	}
	if _, err := os.Stat(filepath.Join(dir, blobFileName)); err == nil {
		return BackendFile
	}
	return BackendSQLite
}

// OpenBackend opens the named backend rooted at dir, creating dir if needed.
func OpenBackend(ctx context.Context, dir string, kind string) (Backend, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("open backend: empty dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" || kind == BackendAuto {
		kind = DetectBackend(dir)
	}
	switch kind {
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(dir, sqliteFileName))
	case BackendFile:
		return NewFileBackend(filepath.Join(dir, blobFileName)), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", kind)
	}
}
