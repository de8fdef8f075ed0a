package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/record-gate/models"
	"github.com/upb/record-gate/repositories"
	"go.uber.org/zap"
)

// RecordRepository implements repositories.RecordRepository on PostgreSQL
type RecordRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *DB, logger *zap.Logger) repositories.RecordRepository {
	return &RecordRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a record
func (r *RecordRepository) Create(ctx context.Context, record *models.Record) error {
	query := `
		INSERT INTO records (id, title, body, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Title,
		record.Body,
		record.CreatedBy,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	r.logger.Debug("record created", zap.String("id", record.ID.String()))
	return nil
}

// GetByID retrieves a record by ID
func (r *RecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	query := `
		SELECT id, title, body, created_by, created_at, updated_at
		FROM records
		WHERE id = $1
	`

	record := &models.Record{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.Title,
		&record.Body,
		&record.CreatedBy,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return record, nil
}

// List returns a page of records, newest first
func (r *RecordRepository) List(ctx context.Context, limit, offset int) ([]*models.Record, error) {
	query := `
		SELECT id, title, body, created_by, created_at, updated_at
		FROM records
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Record, 0)
	for rows.Next() {
		record := &models.Record{}
		if err := rows.Scan(
			&record.ID,
			&record.Title,
			&record.Body,
			&record.CreatedBy,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Update overwrites a record's title, body and updated_at
func (r *RecordRepository) Update(ctx context.Context, record *models.Record) error {
	query := `
		UPDATE records
		SET title = $2, body = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Title,
		record.Body,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	return r.expectOneRow(result, record.ID)
}

// Delete removes a record
func (r *RecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	if err := r.expectOneRow(result, id); err != nil {
		return err
	}

	r.logger.Debug("record deleted", zap.String("id", id.String()))
	return nil
}

func (r *RecordRepository) expectOneRow(result sql.Result, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}
	return nil
}
