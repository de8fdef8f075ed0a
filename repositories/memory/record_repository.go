// Package memory provides an in-process RecordRepository used when no
// database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/upb/record-gate/models"
	"github.com/upb/record-gate/repositories"
)

// RecordRepository keeps records in a map guarded by a RWMutex
type RecordRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.Record
}

// NewRecordRepository creates an empty in-memory repository
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{records: make(map[uuid.UUID]models.Record)}
}

var _ repositories.RecordRepository = (*RecordRepository)(nil)

// Create stores a copy of record
func (r *RecordRepository) Create(_ context.Context, record *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return fmt.Errorf("failed to create record: duplicate id %s", record.ID)
	}
	r.records[record.ID] = *record
	return nil
}

// GetByID returns a copy of the stored record
func (r *RecordRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}
	return &record, nil
}

// List returns records newest first
func (r *RecordRepository) List(_ context.Context, limit, offset int) ([]*models.Record, error) {
	r.mu.RLock()
	all := make([]*models.Record, 0, len(r.records))
	for _, record := range r.records {
		record := record
		all = append(all, &record)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*models.Record{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Update replaces title, body and updated_at of an existing record
func (r *RecordRepository) Update(_ context.Context, record *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[record.ID]
	if !ok {
		return fmt.Errorf("%w: %s", repositories.ErrNotFound, record.ID)
	}
	stored.Title = record.Title
	stored.Body = record.Body
	stored.UpdatedAt = record.UpdatedAt
	r.records[record.ID] = stored
	return nil
}

// Delete removes a record
func (r *RecordRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}
	delete(r.records, id)
	return nil
}
