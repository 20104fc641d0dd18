package quota

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite so that quota counts
// survive restarts. It is suitable for single-instance deployments; a
// restart mid-day keeps the day's consumption intact instead of
// handing every space a fresh budget.
//
// SQLiteStore uses a write-ahead log (WAL) for better concurrent
// performance and automatic checkpointing to balance write performance
// with durability.
type SQLiteStore struct {
	db                 *sql.DB
	dbPath             string
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	incrementStmt *sql.Stmt
	usageStmt     *sql.Stmt
	cleanupStmt   *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite quota store.
type SQLiteStoreConfig struct {
	// Path is the path to the SQLite database file.
	Path string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a SQLite quota store with default settings.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{
		Path:               path,
		CheckpointInterval: 5 * time.Minute,
		BusyTimeout:        5 * time.Second,
	})
}

// NewSQLiteStoreWithConfig creates a SQLite quota store with custom
// configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	// Open database with WAL mode and busy timeout
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{
		db:                 db,
		dbPath:             cfg.Path,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go store.checkpointLoop()

	return store, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quota_usage (
		space_key TEXT NOT NULL,
		day TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		last_updated INTEGER NOT NULL,
		PRIMARY KEY (space_key, day)
	);

	CREATE INDEX IF NOT EXISTS idx_quota_usage_day ON quota_usage(day);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.incrementStmt, err = s.db.Prepare(`
		INSERT INTO quota_usage (space_key, day, used, last_updated)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (space_key, day) DO UPDATE SET
			used = used + 1,
			last_updated = excluded.last_updated
		RETURNING used
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare increment statement: %w", err)
	}

	s.usageStmt, err = s.db.Prepare(`
		SELECT used FROM quota_usage
		WHERE space_key = ? AND day = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare usage statement: %w", err)
	}

	s.cleanupStmt, err = s.db.Prepare(`
		DELETE FROM quota_usage
		WHERE day < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cleanup statement: %w", err)
	}

	return nil
}

// Usage returns the number of calls recorded for the space on the
// given day.
func (s *SQLiteStore) Usage(ctx context.Context, spaceKey, day string) (int64, error) {
	if spaceKey == "" {
		return 0, fmt.Errorf("space key cannot be empty")
	}
	if day == "" {
		return 0, fmt.Errorf("day cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var used int64
	err := s.usageStmt.QueryRowContext(ctx, spaceKey, day).Scan(&used)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read usage: %w", err)
	}

	return used, nil
}

// Increment adds one call for the space on the given day and returns
// the new total.
func (s *SQLiteStore) Increment(ctx context.Context, spaceKey, day string) (int64, error) {
	if spaceKey == "" {
		return 0, fmt.Errorf("space key cannot be empty")
	}
	if day == "" {
		return 0, fmt.Errorf("day cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var used int64
	err := s.incrementStmt.QueryRowContext(ctx, spaceKey, day, time.Now().Unix()).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("failed to increment usage: %w", err)
	}

	return used, nil
}

// Cleanup removes usage rows for days before the given day and returns
// the number removed.
func (s *SQLiteStore) Cleanup(ctx context.Context, before string) (int, error) {
	if before == "" {
		return 0, fmt.Errorf("day cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.cleanupStmt.ExecContext(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(deleted), nil
}

// Close releases any resources held by the store.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		if s.incrementStmt != nil {
			s.incrementStmt.Close()
		}
		if s.usageStmt != nil {
			s.usageStmt.Close()
		}
		if s.cleanupStmt != nil {
			s.cleanupStmt.Close()
		}

		if s.db != nil {
			// Run final checkpoint
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *SQLiteStore) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}
