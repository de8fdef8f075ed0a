package models

import (
	"time"

	"github.com/google/uuid"
)

// Record is the resource guarded by the permission gate
type Record struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedBy string    `json:"created_by" db:"created_by"` // subject of the creating user
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Record model
func (Record) TableName() string {
	return "records"
}

// NewRecord creates a new Record instance
func NewRecord(title, body, createdBy string) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.New(),
		Title:     title,
		Body:      body,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply overwrites the editable fields and bumps UpdatedAt
func (r *Record) Apply(title, body string) {
	r.Title = title
	r.Body = body
	r.UpdatedAt = time.Now().UTC()
}
