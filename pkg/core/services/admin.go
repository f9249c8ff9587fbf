package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/core/signups"
	"github.com/jakechorley/cup-volunteers/pkg/db"
)

// openSession loads the stored record into a fresh session.
// A failed load is an error here: writing back after one would overwrite the record with empty days.
func openSession(ctx context.Context, store db.RecordStore, capacity int, logger *zap.Logger) (*signups.Session, error) {
	session := signups.NewSession(store, logger, signups.WithCapacity(capacity))
	if result := session.Initialize(ctx); result.Outcome == signups.LoadFailed {
		return nil, fmt.Errorf("failed to load signup record: %w", result.Err)
	}
	return session, nil
}

// RemoveVolunteer deletes one entry by id from day and writes the record back
func RemoveVolunteer(
	ctx context.Context,
	store db.RecordStore,
	logger *zap.Logger,
	capacity int,
	day model.Day,
	id model.EntryID,
) (*signups.MutationResult, error) {
	logger.Debug("Removing volunteer", zap.String("day", string(day)), zap.String("id", id.String()))

	session, err := openSession(ctx, store, capacity, logger)
	if err != nil {
		return nil, err
	}

	result, err := session.RemoveVolunteer(ctx, day, id)
	if err != nil {
		return nil, err
	}
	if result.SaveErr != nil {
		return result, result.SaveErr
	}
	return result, nil
}

// ClearSignups empties every day and writes the empty record back
func ClearSignups(ctx context.Context, store db.RecordStore, logger *zap.Logger, capacity int) (*signups.MutationResult, error) {
	session, err := openSession(ctx, store, capacity, logger)
	if err != nil {
		return nil, err
	}

	result := session.ClearAll(ctx)
	if result.SaveErr != nil {
		return result, result.SaveErr
	}
	return result, nil
}
