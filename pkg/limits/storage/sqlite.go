package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // registers "sqlite" (pure Go)
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// Path is the database file. Parent directories are created.
	Path string

	// Driver is DriverModernc or DriverMattn. Default: DriverModernc.
	Driver string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteStore keeps windows in a SQLite database so counters survive
// restarts. The database runs in WAL mode with a single connection.
type SQLiteStore struct {
	db        *sql.DB
	closeOnce sync.Once

	incrementStmt *sql.Stmt
	cleanupStmt   *sql.Stmt
	countStmt     *sql.Stmt
}

// NewSQLiteStore opens or creates the database and prepares statements.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

// buildDSN encodes WAL mode and the busy timeout in each driver's syntax.
func buildDSN(cfg SQLiteConfig) (string, error) {
	ms := cfg.BusyTimeout.Milliseconds()
	switch cfg.Driver {
	case DriverModernc:
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
			cfg.Path, ms), nil
	case DriverMattn:
		return fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL",
			cfg.Path, ms), nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", cfg.Driver)
	}
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS rate_windows (
		client_key TEXT PRIMARY KEY,
		count INTEGER NOT NULL,
		reset_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rate_windows_reset_at ON rate_windows(reset_at);
	`)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	// Column references inside DO UPDATE read the row as it was before the
	// update, so both CASEs test the old window.
	s.incrementStmt, err = s.db.Prepare(`
		INSERT INTO rate_windows (client_key, count, reset_at)
		VALUES (?1, 1, ?2)
		ON CONFLICT (client_key) DO UPDATE SET
			count = CASE WHEN rate_windows.reset_at <= ?3 THEN 1 ELSE rate_windows.count + 1 END,
			reset_at = CASE WHEN rate_windows.reset_at <= ?3 THEN excluded.reset_at ELSE rate_windows.reset_at END
		RETURNING count, reset_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare increment statement: %w", err)
	}

	s.cleanupStmt, err = s.db.Prepare(`DELETE FROM rate_windows WHERE reset_at <= ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare cleanup statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM rate_windows`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	return nil
}

// Increment implements Store.
func (s *SQLiteStore) Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error) {
	if key == "" {
		return Window{}, fmt.Errorf("key cannot be empty")
	}

	var (
		count   int64
		resetAt int64
	)
	err := s.incrementStmt.QueryRowContext(ctx, key, now.Add(window).UnixMilli(), now.UnixMilli()).
		Scan(&count, &resetAt)
	if err != nil {
		return Window{}, fmt.Errorf("failed to increment window: %w", err)
	}

	return Window{Count: count, ResetAt: time.UnixMilli(resetAt)}, nil
}

// Cleanup implements Store.
func (s *SQLiteStore) Cleanup(ctx context.Context, now time.Time) (int, error) {
	result, err := s.cleanupStmt.ExecContext(ctx, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(deleted), nil
}

// Len implements Store.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.countStmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count windows: %w", err)
	}
	return n, nil
}

// Ping implements Store.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close checkpoints the WAL and closes the database. It is idempotent.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.incrementStmt, s.cleanupStmt, s.countStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		closeErr = s.db.Close()
	})

	return closeErr
}
