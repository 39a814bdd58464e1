package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"noteboard/pkg/chunking"
	"noteboard/profile"
	"noteboard/repository"
	"noteboard/vectormath"
)

// ErrNotOwner is returned when a user operates on a note they do not own.
var ErrNotOwner = errors.New("note is owned by another user")

// ValidationError reports malformed note input. It is detected before any
// side effect and maps to a 4xx response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   string `json:"color"`
}

// Service owns the note lifecycle: validation, embedding, persistence,
// vector indexing, and synchronous profile recomputation.
type Service struct {
	store    repository.NoteStore
	vectors  repository.NoteVectorRepo
	chunker  chunking.ChunkingClient
	profiles *profile.Aggregator
	logger   *zap.Logger
}

func NewService(store repository.NoteStore, vectors repository.NoteVectorRepo, chunker chunking.ChunkingClient, profiles *profile.Aggregator, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		vectors:  vectors,
		chunker:  chunker,
		profiles: profiles,
		logger:   logger,
	}
}

func validate(in NoteInput) error {
	if in.Title == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	if len(in.Title) > 200 {
		return &ValidationError{Field: "title", Reason: "title must be at most 200 characters"}
	}
	if in.Color == "" {
		return &ValidationError{Field: "color", Reason: "color is required"}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID string, in NoteInput) (*repository.Note, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	embedding, err := s.embedNote(ctx, in.Title, in.Content)
	if err != nil {
		return nil, fmt.Errorf("err embed note: %w", err)
	}

	now := time.Now().UTC()
	note := &repository.Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		Color:     in.Color,
		Embedding: embedding,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Put(ctx, note); err != nil {
		return nil, fmt.Errorf("err store note: %w", err)
	}
	if err := s.vectors.UpsertNote(ctx, note); err != nil {
		return nil, fmt.Errorf("err index note: %w", err)
	}

	s.recomputeProfile(ctx, userID)
	return note, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in NoteInput) (*repository.Note, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "id is required"}
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	note, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, ErrNotOwner
	}

	embedding, err := s.embedNote(ctx, in.Title, in.Content)
	if err != nil {
		return nil, fmt.Errorf("err embed note: %w", err)
	}

	note.Title = in.Title
	note.Content = in.Content
	note.Color = in.Color
	note.Embedding = embedding
	note.UpdatedAt = time.Now().UTC()

	if err := s.store.Put(ctx, note); err != nil {
		return nil, fmt.Errorf("err store note: %w", err)
	}
	if err := s.vectors.UpsertNote(ctx, note); err != nil {
		return nil, fmt.Errorf("err index note: %w", err)
	}

	s.recomputeProfile(ctx, userID)
	return note, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return &ValidationError{Field: "id", Reason: "id is required"}
	}

	note, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if note.UserID != userID {
		return ErrNotOwner
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("err delete note: %w", err)
	}
	if err := s.vectors.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("err unindex note: %w", err)
	}

	s.recomputeProfile(ctx, userID)
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*repository.Note, error) {
	return s.store.ListByUser(ctx, userID)
}

// embedNote embeds "title\n\ncontent". Long content is split into chunks,
// each chunk embedded, and the chunk vectors combined with the arithmetic
// mean so the note keeps a single representative vector.
func (s *Service) embedNote(ctx context.Context, title, content string) ([]float32, error) {
	chunks, err := s.chunker.ChunkText(ctx, title+"\n\n"+content)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(chunks))
	for i, c := range chunks {
		vectors[i] = c.Vector
	}
	return vectormath.Aggregate(vectors, vectormath.PolicyMean)
}

// recomputeProfile runs after every note mutation. The note write is the
// source of truth; a profile failure is logged, never propagated, so the
// derived cache cannot roll back the mutation that triggered it.
func (s *Service) recomputeProfile(ctx context.Context, userID string) {
	if err := s.profiles.Recompute(ctx, userID); err != nil {
		s.logger.Error("profile recompute failed",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
