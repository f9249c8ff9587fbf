package db

import (
	"context"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

// RecordStore defines the operations on the single shared signup record.
// The firebase, redis, postgres and in-memory backends all implement this interface.
//
// Load returns (nil, nil) when no record has been written yet.
// Save overwrites the whole stored record; there is no partial update or version check.
type RecordStore interface {
	Load(ctx context.Context) (*model.SignupRecord, error)
	Save(ctx context.Context, record model.SignupRecord) error
}
