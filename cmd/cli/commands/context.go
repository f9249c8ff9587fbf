package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/internal/config"
	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/db"
	"github.com/jakechorley/cup-volunteers/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Event    model.Event
	Records  db.RecordStore
	Postgres *postgres.DB // set only for the postgres backend
	Logger   *zap.Logger
	Ctx      context.Context
	Env      string

	google *googleClients
}
