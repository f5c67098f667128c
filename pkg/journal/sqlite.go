package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// schemaVersion is bumped when the journal schema changes shape.
const schemaVersion = 1

// SQLiteStorage is the durable journal backend. It uses a write-ahead
// log for concurrent read performance and a single writer connection, as
// SQLite requires.
type SQLiteStorage struct {
	db *sql.DB

	insertStmt *sql.Stmt
	countStmt  *sql.Stmt
	deleteStmt *sql.Stmt
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStorage opens (creating if necessary) a journal database at
// the given path with default settings.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	return NewSQLiteStorageWithConfig(SQLiteConfig{Path: path})
}

// NewSQLiteStorageWithConfig opens a journal database with custom
// configuration.
func NewSQLiteStorageWithConfig(cfg SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStorage{db: db}

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

// initSchema creates the journal tables if they do not exist and records
// the schema version.
func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_info (
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journal_records (
		id TEXT PRIMARY KEY,
		trace_id TEXT NOT NULL,
		direction TEXT NOT NULL,
		functions TEXT NOT NULL,
		macros TEXT NOT NULL,
		bytes INTEGER NOT NULL,
		duration_us INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_journal_created_at ON journal_records(created_at);
	CREATE INDEX IF NOT EXISTS idx_journal_trace_id ON journal_records(trace_id);
	CREATE INDEX IF NOT EXISTS idx_journal_outcome ON journal_records(outcome);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_info LIMIT 1`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, schemaVersion)
		return err
	case err != nil:
		return err
	case version != schemaVersion:
		return fmt.Errorf("unsupported journal schema version %d (want %d)", version, schemaVersion)
	}
	return nil
}

// prepareStatements prepares the hot-path SQL statements for reuse.
func (s *SQLiteStorage) prepareStatements() error {
	var err error

	s.insertStmt, err = s.db.Prepare(`
		INSERT INTO journal_records (id, trace_id, direction, functions, macros, bytes, duration_us, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM journal_records`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`DELETE FROM journal_records WHERE created_at < ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	return nil
}

// Write persists one record.
func (s *SQLiteStorage) Write(ctx context.Context, record *Record) error {
	functions, err := json.Marshal(record.Functions)
	if err != nil {
		return fmt.Errorf("failed to encode functions: %w", err)
	}
	macros, err := json.Marshal(record.Macros)
	if err != nil {
		return fmt.Errorf("failed to encode macros: %w", err)
	}

	_, err = s.insertStmt.ExecContext(ctx,
		record.ID,
		record.TraceID,
		record.Direction,
		string(functions),
		string(macros),
		record.Bytes,
		record.Duration.Microseconds(),
		record.Outcome,
		record.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to write journal record: %w", err)
	}
	return nil
}

// Query returns matching records, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, q Query) ([]*Record, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, trace_id, direction, functions, macros, bytes, duration_us, outcome, created_at FROM journal_records`)

	var conds []string
	var args []any
	if q.TraceID != "" {
		conds = append(conds, "trace_id = ?")
		args = append(args, q.TraceID)
	}
	if q.Outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, q.Outcome)
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var (
			r          Record
			functions  string
			macros     string
			durationUS int64
			createdAt  int64
		)
		if err := rows.Scan(&r.ID, &r.TraceID, &r.Direction, &functions, &macros, &r.Bytes, &durationUS, &r.Outcome, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal record: %w", err)
		}
		if err := json.Unmarshal([]byte(functions), &r.Functions); err != nil {
			return nil, fmt.Errorf("failed to decode functions: %w", err)
		}
		if err := json.Unmarshal([]byte(macros), &r.Macros); err != nil {
			return nil, fmt.Errorf("failed to decode macros: %w", err)
		}
		r.Duration = time.Duration(durationUS) * time.Microsecond
		r.CreatedAt = time.UnixMicro(createdAt).UTC()
		out = append(out, &r)
	}
	return out, rows.Err()
}

// Count returns the total number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.countStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count journal records: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes records created before the cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.deleteStmt.ExecContext(ctx, cutoff.UnixMicro())
	if err != nil {
		return 0, fmt.Errorf("failed to delete journal records: %w", err)
	}
	return res.RowsAffected()
}

// TrimToCount removes the oldest records beyond max.
func (s *SQLiteStorage) TrimToCount(ctx context.Context, max int64) (int64, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	excess := count - max
	if excess <= 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM journal_records WHERE id IN (
			SELECT id FROM journal_records
			ORDER BY created_at ASC, id ASC
			LIMIT ?
		)
	`, excess)
	if err != nil {
		return 0, fmt.Errorf("failed to trim journal records: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the prepared statements and the database.
func (s *SQLiteStorage) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertStmt, s.countStmt, s.deleteStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
