package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/internal/config"
	"github.com/jakechorley/cup-volunteers/pkg/db"
	"github.com/jakechorley/cup-volunteers/pkg/firebase"
	"github.com/jakechorley/cup-volunteers/pkg/postgres"
	"github.com/jakechorley/cup-volunteers/pkg/rediskv"
	"github.com/jakechorley/cup-volunteers/pkg/sqlite"
)

// OpenedStore is the record store selected by store.backend
type OpenedStore struct {
	Records  db.RecordStore
	Postgres *postgres.DB
	Close    func()
}

// OpenRecordStore connects to the configured backend
func OpenRecordStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*OpenedStore, error) {
	timeout := cfg.RequestTimeout()
	logger.Info("Opening record store",
		zap.String("backend", cfg.Store.Backend),
		zap.String("record_key", cfg.Store.RecordKey))

	switch cfg.Store.Backend {
	case "firebase":
		store, err := firebase.NewStore(ctx, firebase.Config{
			DatabaseURL:     cfg.Store.Firebase.DatabaseURL,
			RecordKey:       cfg.Store.RecordKey,
			CredentialsFile: cfg.Store.Firebase.CredentialsFile,
			Secret:          cfg.Store.Firebase.Secret,
			Timeout:         timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase store: %w", err)
		}
		return &OpenedStore{Records: store, Close: func() {}}, nil

	case "redis":
		store := rediskv.NewStore(rediskv.Config{
			Addr:      cfg.Store.Redis.Addr,
			Password:  cfg.Store.Redis.Password,
			DB:        cfg.Store.Redis.DB,
			KeyPrefix: cfg.Store.Redis.KeyPrefix,
			RecordKey: cfg.Store.RecordKey,
			Timeout:   timeout,
		})
		if err := store.Ping(ctx); err != nil {
			// the record is still served from memory, so an unreachable redis is not fatal
			logger.Warn("Redis ping failed", zap.String("addr", cfg.Store.Redis.Addr), zap.Error(err))
		}
		return &OpenedStore{
			Records: store,
			Close: func() {
				if err := store.Close(); err != nil {
					logger.Warn("Failed to close redis client", zap.Error(err))
				}
			},
		}, nil

	case "postgres":
		pg, err := postgres.NewDB(ctx, cfg.Store.Postgres.ConnString)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return &OpenedStore{
			Records:  pg.Records(cfg.Store.RecordKey, timeout),
			Postgres: pg,
			Close:    pg.Close,
		}, nil

	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.Store.SQLite.Path, cfg.Store.RecordKey, timeout)
		if err != nil {
			return nil, err
		}
		return &OpenedStore{
			Records: store,
			Close: func() {
				if err := store.Close(); err != nil {
					logger.Warn("Failed to close sqlite database", zap.Error(err))
				}
			},
		}, nil

	case "memory":
		logger.Warn("Using in-memory record store, signups are lost on exit")
		return &OpenedStore{Records: db.NewMemoryStore(nil), Close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
