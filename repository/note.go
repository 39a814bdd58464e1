package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNoteNotFound is returned by NoteStore lookups for unknown note IDs.
var ErrNoteNotFound = errors.New("note not found")

// Note is the source-of-truth record for a user's note. The embedding is
// derived from title and content and kept in sync by the note service.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Color     string    `json:"color,omitempty"`
	Embedding []float32 `json:"embedding"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NoteStore interface {
	Put(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, id string) (*Note, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*Note, error)
}
