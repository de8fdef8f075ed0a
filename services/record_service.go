package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/record-gate/models"
	"github.com/upb/record-gate/repositories"
	"github.com/upb/record-gate/utils"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// CreateRecordInput is the payload accepted by Create
type CreateRecordInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"max=10000"`
}

// UpdateRecordInput is the payload accepted by Update
type UpdateRecordInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"max=10000"`
}

// RecordService holds the business logic for records. Authorization has
// already happened in the permission gate by the time a call lands here.
type RecordService struct {
	repo   repositories.RecordRepository
	logger *zap.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(repo repositories.RecordRepository, logger *zap.Logger) *RecordService {
	return &RecordService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates input and stores a new record owned by createdBy
func (s *RecordService) Create(ctx context.Context, input CreateRecordInput, createdBy string) (*models.Record, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	record := models.NewRecord(input.Title, input.Body, createdBy)
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, WrapInternal("failed to create record", err)
	}

	s.logger.Info("record created",
		zap.String("record_id", record.ID.String()),
		zap.String("created_by", createdBy))

	return record, nil
}

// Get returns a single record
func (s *RecordService) Get(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, id)
	}
	return record, nil
}

// ClampLimit returns the page size List actually uses for a requested limit
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// List returns a page of records. limit is passed through ClampLimit.
func (s *RecordService) List(ctx context.Context, limit, offset int) ([]*models.Record, error) {
	limit = ClampLimit(limit)
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}

	records, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, WrapInternal("failed to list records", err)
	}
	return records, nil
}

// Update overwrites a record's title and body
func (s *RecordService) Update(ctx context.Context, id uuid.UUID, input UpdateRecordInput) (*models.Record, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, id)
	}

	record.Apply(input.Title, input.Body)
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, mapRepositoryError(err, id)
	}

	s.logger.Info("record updated", zap.String("record_id", id.String()))
	return record, nil
}

// Delete removes a record
func (s *RecordService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err, id)
	}

	s.logger.Info("record deleted", zap.String("record_id", id.String()))
	return nil
}

func validateInput(input interface{}) error {
	if err := utils.ValidateStruct(input); err != nil {
		domainErr := NewDomainError(ErrorTypeValidation, "invalid record input", err)
		for field, msg := range utils.GetValidationFields(err) {
			domainErr.WithDetail(field, msg)
		}
		return domainErr
	}
	return nil
}

func mapRepositoryError(err error, id uuid.UUID) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return WrapInternal("record repository failure", err)
}
