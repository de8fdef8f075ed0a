package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/record-gate/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// RecordRepository handles record data operations
type RecordRepository interface {
	// Create stores a new record
	Create(ctx context.Context, record *models.Record) error

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Record, error)

	// List returns records ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]*models.Record, error)

	// Update overwrites title, body and updated_at
	Update(ctx context.Context, record *models.Record) error

	// Delete removes a record
	Delete(ctx context.Context, id uuid.UUID) error
}
