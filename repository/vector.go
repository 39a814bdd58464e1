package repository

import (
	"context"
	"errors"
)

// ErrProfileNotFound is returned when a user has no stored profile vector,
// which happens until their first note is created.
var ErrProfileNotFound = errors.New("profile not found")

// RetrievalMatch is one hit from a vector index query. Matches are ephemeral,
// ordered by descending score, and never persisted.
type RetrievalMatch struct {
	ID      string
	Score   float32
	UserID  string
	Title   string
	Content string
}

// NoteVectorRepo indexes note embeddings for similarity search. Search is
// restricted to a single owner's notes; the ownership filter is part of the
// index query, so results are exact top-K after filtering.
type NoteVectorRepo interface {
	UpsertNote(ctx context.Context, note *Note) error
	DeleteNote(ctx context.Context, id string) error
	SearchNotes(ctx context.Context, queryVector []float32, userID string, limit, candidates int) ([]RetrievalMatch, error)
}

// ProfileVectorRepo indexes per-user profile embeddings. SearchProfiles
// excludes the querying user so a profile never matches itself.
type ProfileVectorRepo interface {
	UpsertProfile(ctx context.Context, userID string, embedding []float32) error
	GetProfile(ctx context.Context, userID string) ([]float32, error)
	SearchProfiles(ctx context.Context, queryVector []float32, excludeUserID string, limit int) ([]RetrievalMatch, error)
}
