package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite ledger store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/ledger.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite. Records survive restarts,
// which keeps the audit trail intact across deployments.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite ledger store.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.MaxOpenConns == 0 {
		config.MaxOpenConns = 10
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 5
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "ledger.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite ledger store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	_, err = s.db.Exec(Schema)
	if err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// Append persists a record to the database.
func (s *SQLiteStore) Append(ctx context.Context, record *Record) error {
	if record == nil {
		return NewStorageError("sqlite", "append", fmt.Errorf("record cannot be nil"))
	}

	detected, _ := json.Marshal(record.Detected)

	query := `
		INSERT INTO ledger_records (
			id, request_id, created_at,
			fingerprint, space_key, page_id, model,
			outcome, served_from_cache, latency_ms,
			prompt_tokens, completion_tokens,
			detected
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.RequestID, record.Timestamp,
		record.Fingerprint, record.SpaceKey, record.PageID, record.Model,
		record.Outcome, record.ServedFromCache, record.LatencyMS,
		record.PromptTokens, record.CompletionTokens,
		string(detected),
	)
	if err != nil {
		return NewStorageError("sqlite", "append", err)
	}

	return nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, request_id, created_at,
		       fingerprint, space_key, page_id, model,
		       outcome, served_from_cache, latency_ms,
		       prompt_tokens, completion_tokens,
		       detected
		FROM ledger_records
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, NewStorageError("sqlite", "recent", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "recent", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledger_records").Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// DeleteBefore removes records created before cutoff, oldest first,
// removing at most limit rows when limit is positive.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	var result sql.Result
	var err error

	if limit > 0 {
		// Subquery keeps the batch bounded without requiring the
		// DELETE ... LIMIT compile option
		query := `
			DELETE FROM ledger_records
			WHERE id IN (
				SELECT id FROM ledger_records
				WHERE created_at < ?
				ORDER BY created_at ASC
				LIMIT ?
			)
		`
		result, err = s.db.ExecContext(ctx, query, cutoff, limit)
	} else {
		result, err = s.db.ExecContext(ctx,
			"DELETE FROM ledger_records WHERE created_at < ?", cutoff)
	}

	if err != nil {
		return 0, NewStorageError("sqlite", "delete", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete", err)
	}

	return deleted, nil
}

// Close releases any resources held by the store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}

	return nil
}

// scanRecord scans one row into a Record.
func scanRecord(rows *sql.Rows) (*Record, error) {
	var (
		record    Record
		requestID sql.NullString
		pageID    sql.NullString
		detected  sql.NullString
	)

	err := rows.Scan(
		&record.ID, &requestID, &record.Timestamp,
		&record.Fingerprint, &record.SpaceKey, &pageID, &record.Model,
		&record.Outcome, &record.ServedFromCache, &record.LatencyMS,
		&record.PromptTokens, &record.CompletionTokens,
		&detected,
	)
	if err != nil {
		return nil, err
	}

	record.RequestID = requestID.String
	record.PageID = pageID.String

	if detected.String != "" && detected.String != "null" {
		if err := json.Unmarshal([]byte(detected.String), &record.Detected); err != nil {
			return nil, fmt.Errorf("failed to unmarshal detected classes: %w", err)
		}
	}

	return &record, nil
}
