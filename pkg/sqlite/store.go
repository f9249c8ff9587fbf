package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS signup_records (
	record_key TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// Store keeps the signup record as one JSON row in a local SQLite file
type Store struct {
	db      *sql.DB
	key     string
	timeout time.Duration
}

var _ db.RecordStore = (*Store)(nil)

// Open opens (or creates) the database at path and ensures the table exists
func Open(ctx context.Context, path, key string, timeout time.Duration) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one writer keeps whole-record overwrites serialised within the process
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create signup_records table: %w", err)
	}

	return &Store{db: conn, key: key, timeout: timeout}, nil
}

// Load reads the record row, returning nil when the row does not exist
func (s *Store) Load(ctx context.Context) (*model.SignupRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM signup_records WHERE record_key = ?`, s.key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query signup record: %w", err)
	}

	var rec model.SignupRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode signup record: %w", err)
	}
	return &rec, nil
}

// Save upserts the whole record
func (s *Store) Save(ctx context.Context, record model.SignupRecord) error {
	body, err := json.Marshal(record.Normalize())
	if err != nil {
		return fmt.Errorf("failed to encode signup record: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO signup_records (record_key, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(record_key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		s.key, string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save signup record: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}
