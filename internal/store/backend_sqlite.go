package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteBackend keeps the blob in a key/value table of a local SQLite database.
type SQLiteBackend struct {
	db   *sqlx.DB
	path string
	key  string
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI read while a CLI invocation writes; busy_timeout avoids "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteBackend{db: db, path: path, key: BlobKey}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations dir: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Path() string { return b.path }

func (b *SQLiteBackend) Read(ctx context.Context) ([]byte, error) {
	var v string
	err := b.db.GetContext(ctx, &v, `SELECT v FROM kv WHERE k = ?`, b.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (b *SQLiteBackend) Write(ctx context.Context, raw []byte) error {
	_, err := b.db.ExecContext(ctx, `INSERT INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at_unixms = excluded.updated_at_unixms`,
		b.key, string(raw), time.Now().UTC().UnixMilli())
	return err
}

func (b *SQLiteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

var _ Backend = (*SQLiteBackend)(nil)
