package rediskv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/db"
)

// Store keeps the signup record as one JSON string in Redis
type Store struct {
	client  redis.UniversalClient
	key     string
	timeout time.Duration
}

// Ensure Store implements RecordStore
var _ db.RecordStore = (*Store)(nil)

// Config for creating a Redis store
type Config struct {
	Addr      string        // Redis address (e.g., "localhost:6379")
	Password  string        // Redis password (empty for no auth)
	DB        int           // Redis database number
	KeyPrefix string        // prepended to RecordKey
	RecordKey string        // the single key holding the record
	Timeout   time.Duration // per command, zero for none
}

// NewStore creates a Redis-backed record store
func NewStore(cfg Config) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewStoreWithClient(client, cfg.KeyPrefix+cfg.RecordKey, cfg.Timeout)
}

// NewStoreWithClient wraps an existing client
func NewStoreWithClient(client redis.UniversalClient, key string, timeout time.Duration) *Store {
	return &Store{client: client, key: key, timeout: timeout}
}

// Key returns the full Redis key of the record
func (s *Store) Key() string {
	return s.key
}

func (s *Store) Load(ctx context.Context) (*model.SignupRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	val, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load signup record: %w", err)
	}

	var rec model.SignupRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode signup record: %w", err)
	}

	return &rec, nil
}

// Save overwrites the key with the full record and no expiry
func (s *Store) Save(ctx context.Context, record model.SignupRecord) error {
	data, err := json.Marshal(record.Normalize())
	if err != nil {
		return fmt.Errorf("failed to encode signup record: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save signup record: %w", err)
	}
	return nil
}

// Ping checks if Redis connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}
