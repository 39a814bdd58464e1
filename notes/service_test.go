package notes

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"noteboard/pkg/chunking"
	"noteboard/profile"
	"noteboard/repository"
	"noteboard/vectormath"
)

type memNoteStore struct {
	notes map[string]*repository.Note
}

func newMemNoteStore() *memNoteStore {
	return &memNoteStore{notes: make(map[string]*repository.Note)}
}

func (m *memNoteStore) Put(_ context.Context, n *repository.Note) error {
	cp := *n
	m.notes[n.ID] = &cp
	return nil
}

func (m *memNoteStore) GetByID(_ context.Context, id string) (*repository.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNoteStore) Delete(_ context.Context, id string) error {
	if _, ok := m.notes[id]; !ok {
		return repository.ErrNoteNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *memNoteStore) ListByUser(_ context.Context, userID string) ([]*repository.Note, error) {
	var out []*repository.Note
	for _, n := range m.notes {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memNoteVectors struct {
	upserted map[string][]float32
	deleted  []string
}

func newMemNoteVectors() *memNoteVectors {
	return &memNoteVectors{upserted: make(map[string][]float32)}
}

func (m *memNoteVectors) UpsertNote(_ context.Context, n *repository.Note) error {
	m.upserted[n.ID] = n.Embedding
	return nil
}

func (m *memNoteVectors) DeleteNote(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.upserted, id)
	return nil
}

func (m *memNoteVectors) SearchNotes(_ context.Context, _ []float32, _ string, _, _ int) ([]repository.RetrievalMatch, error) {
	return nil, nil
}

type memProfileVectors struct {
	profiles map[string][]float32
	fail     bool
}

func (m *memProfileVectors) UpsertProfile(_ context.Context, userID string, embedding []float32) error {
	if m.fail {
		return errors.New("profile index unavailable")
	}
	if m.profiles == nil {
		m.profiles = make(map[string][]float32)
	}
	m.profiles[userID] = embedding
	return nil
}

func (m *memProfileVectors) GetProfile(_ context.Context, userID string) ([]float32, error) {
	vec, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return vec, nil
}

func (m *memProfileVectors) SearchProfiles(_ context.Context, _ []float32, _ string, _ int) ([]repository.RetrievalMatch, error) {
	return nil, nil
}

// stubChunker embeds every text as a single fixed-direction chunk so tests
// stay deterministic without an embedding provider.
type stubChunker struct {
	vector []float32
}

func (s *stubChunker) ChunkText(_ context.Context, text string) ([]chunking.ChunkOutput, error) {
	return []chunking.ChunkOutput{{Text: text, Vector: s.vector}}, nil
}

func newTestService(vec []float32) (*Service, *memNoteStore, *memNoteVectors, *memProfileVectors) {
	store := newMemNoteStore()
	vectors := newMemNoteVectors()
	profiles := &memProfileVectors{}
	agg := profile.NewAggregator(store, profiles, vectormath.PolicyMean, zap.NewNop())
	svc := NewService(store, vectors, &stubChunker{vector: vec}, agg, zap.NewNop())
	return svc, store, vectors, profiles
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService([]float32{1, 0})

	testCases := []struct {
		name  string
		input NoteInput
	}{
		{"MissingTitle", NoteInput{Content: "text", Color: "#fff"}},
		{"MissingColor", NoteInput{Title: "t", Content: "text"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-a", tc.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateIndexesAndRecomputesProfile(t *testing.T) {
	svc, store, vectors, profiles := newTestService([]float32{1, 0})

	note, err := svc.Create(context.Background(), "user-a", NoteInput{Title: "go routines", Color: "#fff"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.ID == "" {
		t.Error("expected generated note id")
	}

	if _, ok := store.notes[note.ID]; !ok {
		t.Error("note not persisted")
	}
	if _, ok := vectors.upserted[note.ID]; !ok {
		t.Error("note not indexed")
	}
	if _, ok := profiles.profiles["user-a"]; !ok {
		t.Error("profile not recomputed after create")
	}
}

func TestCreateSurvivesProfileFailure(t *testing.T) {
	store := newMemNoteStore()
	vectors := newMemNoteVectors()
	profiles := &memProfileVectors{fail: true}
	agg := profile.NewAggregator(store, profiles, vectormath.PolicyMean, zap.NewNop())
	svc := NewService(store, vectors, &stubChunker{vector: []float32{1, 0}}, agg, zap.NewNop())

	note, err := svc.Create(context.Background(), "user-a", NoteInput{Title: "t", Color: "#fff"})
	if err != nil {
		t.Fatalf("note create must not fail on profile recompute: %v", err)
	}
	if _, ok := store.notes[note.ID]; !ok {
		t.Error("note write rolled back by profile failure")
	}
}

func TestUpdateOwnership(t *testing.T) {
	svc, _, _, _ := newTestService([]float32{1, 0})

	note, err := svc.Create(context.Background(), "user-a", NoteInput{Title: "t", Color: "#fff"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Update(context.Background(), "user-b", note.ID, NoteInput{Title: "stolen", Color: "#000"})
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	_, err = svc.Update(context.Background(), "user-a", "missing", NoteInput{Title: "x", Color: "#000"})
	if !errors.Is(err, repository.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestUpdateReembedsNote(t *testing.T) {
	svc, store, vectors, _ := newTestService([]float32{1, 0})

	note, err := svc.Create(context.Background(), "user-a", NoteInput{Title: "t", Color: "#fff"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Update(context.Background(), "user-a", note.ID, NoteInput{Title: "new title", Content: "new content", Color: "#000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "new title" || updated.Color != "#000" {
		t.Errorf("unexpected note after update: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Errorf("UpdatedAt not refreshed")
	}
	if store.notes[note.ID].Title != "new title" {
		t.Error("store not updated")
	}
	if _, ok := vectors.upserted[note.ID]; !ok {
		t.Error("vector index not updated")
	}
}

func TestDelete(t *testing.T) {
	svc, store, vectors, profiles := newTestService([]float32{1, 0})
	ctx := context.Background()

	n1, _ := svc.Create(ctx, "user-a", NoteInput{Title: "one", Color: "#fff"})
	n2, _ := svc.Create(ctx, "user-a", NoteInput{Title: "two", Color: "#fff"})

	if err := svc.Delete(ctx, "user-b", n1.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	if err := svc.Delete(ctx, "user-a", n1.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.notes[n1.ID]; ok {
		t.Error("note not deleted from store")
	}
	if len(vectors.deleted) != 1 || vectors.deleted[0] != n1.ID {
		t.Errorf("note not removed from vector index: %v", vectors.deleted)
	}

	// Deleting the last note leaves the previous profile in place.
	if err := svc.Delete(ctx, "user-a", n2.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := profiles.profiles["user-a"]; !ok {
		t.Error("stale profile should remain queryable after last note is deleted")
	}
}
