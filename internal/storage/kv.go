package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB,
	updated_at INTEGER NOT NULL
);`

// KVConfig holds the parameters for opening the SQLite key-value store.
type KVConfig struct {
	// Path is the database file. Its parent directory is created when
	// missing.
	Path string

	// PoolSize defaults to 2: one writer for the controller and one reader
	// for the presentation layer.
	PoolSize int

	// Clock stamps updated_at. Defaults to the real clock.
	Clock  clockwork.Clock
	Logger *slog.Logger
}

// SQLiteKV is a durable key-value store. Every value is written with a
// single statement, so each Put replaces the previous value atomically.
type SQLiteKV struct {
	pool   *sqlitex.Pool
	clock  clockwork.Clock
	logger *slog.Logger
	path   string
}

// OpenSQLiteKV opens or creates the store at config.Path.
func OpenSQLiteKV(config KVConfig) (*SQLiteKV, error) {
	if config.Path == "" {
		return nil, errors.New("sqlite kv: path is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := config.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	poolSize := config.PoolSize
	if poolSize <= 0 {
		poolSize = 2
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, errors.Wrap(err, "sqlite kv: create data directory")
	}

	pool, err := sqlitex.NewPool(config.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareKVConn,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "sqlite kv: open %s", config.Path)
	}

	logger.Debug("stats database opened", "path", config.Path, "pool_size", poolSize)
	return &SQLiteKV{pool: pool, clock: clock, logger: logger, path: config.Path}, nil
}

func prepareKVConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return errors.Wrap(err, pragma)
		}
	}
	return sqlitex.ExecuteScript(conn, kvSchema, nil)
}

// Get returns the value stored under key and whether it exists.
func (store *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	conn, err := store.pool.Take(ctx)
	if err != nil {
		return nil, false, errors.Wrap(err, "sqlite kv: take connection")
	}
	defer store.pool.Put(conn)

	var (
		value []byte
		found bool
	)
	err = sqlitex.Execute(conn, "SELECT value FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "sqlite kv: get %q", key)
	}
	return value, found, nil
}

// Put stores value under key, replacing any previous value.
func (store *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	conn, err := store.pool.Take(ctx)
	if err != nil {
		return errors.Wrap(err, "sqlite kv: take connection")
	}
	defer store.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{Args: []any{key, value, store.clock.Now().Unix()}},
	)
	if err != nil {
		return errors.Wrapf(err, "sqlite kv: put %q", key)
	}
	return nil
}

// UpdatedAt returns when key was last written, to the second.
func (store *SQLiteKV) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	conn, err := store.pool.Take(ctx)
	if err != nil {
		return time.Time{}, false, errors.Wrap(err, "sqlite kv: take connection")
	}
	defer store.pool.Put(conn)

	var (
		updated time.Time
		found   bool
	)
	err = sqlitex.Execute(conn, "SELECT updated_at FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			updated = time.Unix(stmt.ColumnInt64(0), 0)
			found = true
			return nil
		},
	})
	if err != nil {
		return time.Time{}, false, errors.Wrapf(err, "sqlite kv: updated_at %q", key)
	}
	return updated, found, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (store *SQLiteKV) Delete(ctx context.Context, key string) error {
	conn, err := store.pool.Take(ctx)
	if err != nil {
		return errors.Wrap(err, "sqlite kv: take connection")
	}
	defer store.pool.Put(conn)

	if err := sqlitex.Execute(conn, "DELETE FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
	}); err != nil {
		return errors.Wrapf(err, "sqlite kv: delete %q", key)
	}
	return nil
}

// Close closes the connection pool.
func (store *SQLiteKV) Close() error {
	if err := store.pool.Close(); err != nil {
		return errors.Wrapf(err, "sqlite kv: close %s", store.path)
	}
	store.logger.Debug("stats database closed", "path", store.path)
	return nil
}

// MemoryKV is a process-local key-value store. It backs statistics when
// the database cannot be opened, and tests.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryKV creates an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (store *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	value, ok := store.values[key]
	return slices.Clone(value), ok, nil
}

// Put stores a copy of value under key.
func (store *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.values[key] = slices.Clone(value)
	return nil
}

// Delete removes key.
func (store *MemoryKV) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.values, key)
	return nil
}

// Close is a no-op.
func (store *MemoryKV) Close() error {
	return nil
}
