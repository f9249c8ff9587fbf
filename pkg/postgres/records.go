package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/db"
)

// RecordStore keeps the signup record as one JSONB row
type RecordStore struct {
	db      *DB
	key     string
	timeout time.Duration
}

var _ db.RecordStore = (*RecordStore)(nil)

// Records returns a store for the row identified by key
func (d *DB) Records(key string, timeout time.Duration) *RecordStore {
	return &RecordStore{db: d, key: key, timeout: timeout}
}

// Load reads the record row, returning nil when the row does not exist
func (s *RecordStore) Load(ctx context.Context) (*model.SignupRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var body []byte
	err := s.db.pool.QueryRow(ctx, `
		SELECT body FROM signup_records WHERE record_key = $1
	`, s.key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query signup record: %w", err)
	}

	var rec model.SignupRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode signup record: %w", err)
	}

	return &rec, nil
}

// Save upserts the whole record. Concurrent writers overwrite each other.
func (s *RecordStore) Save(ctx context.Context, record model.SignupRecord) error {
	body, err := json.Marshal(record.Normalize())
	if err != nil {
		return fmt.Errorf("failed to encode signup record: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.db.pool.Exec(ctx, `
		INSERT INTO signup_records (record_key, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (record_key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`, s.key, body)
	if err != nil {
		return fmt.Errorf("failed to save signup record: %w", err)
	}
	return nil
}

func (s *RecordStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}
