package db

import (
	"context"
	"sync"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

// MemoryStore keeps the record in process memory
type MemoryStore struct {
	mu      sync.Mutex
	record  *model.SignupRecord
	loads   int
	saves   int
	loadErr error
	saveErr error
}

var _ RecordStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store; a nil record means nothing has been written yet
func NewMemoryStore(initial *model.SignupRecord) *MemoryStore {
	s := &MemoryStore{}
	if initial != nil {
		rec := initial.Clone()
		s.record = &rec
	}
	return s
}

func (s *MemoryStore) Load(ctx context.Context) (*model.SignupRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.record == nil {
		return nil, nil
	}
	rec := s.record.Clone()
	return &rec, nil
}

func (s *MemoryStore) Save(ctx context.Context, record model.SignupRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	rec := record.Clone()
	s.record = &rec
	return nil
}

// FailLoad makes subsequent loads return err (nil restores normal behaviour)
func (s *MemoryStore) FailLoad(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailSave makes subsequent saves return err (nil restores normal behaviour)
func (s *MemoryStore) FailSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Stored returns a copy of the last successfully saved record
func (s *MemoryStore) Stored() *model.SignupRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil
	}
	rec := s.record.Clone()
	return &rec
}

// Calls reports how many loads and saves have been attempted
func (s *MemoryStore) Calls() (loads, saves int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads, s.saves
}
