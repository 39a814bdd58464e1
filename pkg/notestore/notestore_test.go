package notestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"noteboard/repository"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testNote(id, userID, title string) *repository.Note {
	now := time.Now().UTC()
	return &repository.Note{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Content:   "content of " + title,
		Color:     "#ffffff",
		Embedding: []float32{0.1, 0.2, 0.3},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPutGetDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	note := testNote("n1", "user-a", "first")
	if err := store.Put(ctx, note); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetByID(ctx, "n1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "first" || got.UserID != "user-a" {
		t.Errorf("unexpected note: %+v", got)
	}
	if len(got.Embedding) != 3 {
		t.Errorf("expected embedding length 3, got %d", len(got.Embedding))
	}

	if err := store.Delete(ctx, "n1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.GetByID(ctx, "n1"); !errors.Is(err, repository.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}

	err = store.Delete(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestListByUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, n := range []*repository.Note{
		testNote("n1", "user-a", "a one"),
		testNote("n2", "user-a", "a two"),
		testNote("n3", "user-b", "b one"),
	} {
		if err := store.Put(ctx, n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	notes, err := store.ListByUser(ctx, "user-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	for _, n := range notes {
		if n.UserID != "user-a" {
			t.Errorf("listed note owned by %s", n.UserID)
		}
	}

	notes, err = store.ListByUser(ctx, "user-c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("expected no notes for unknown user, got %d", len(notes))
	}
}

func TestPutOverwrite(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	note := testNote("n1", "user-a", "before")
	if err := store.Put(ctx, note); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	note.Title = "after"
	note.Embedding = []float32{1, 1, 1}
	if err := store.Put(ctx, note); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	notes, err := store.ListByUser(ctx, "user-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note after overwrite, got %d", len(notes))
	}
	if notes[0].Title != "after" {
		t.Errorf("expected updated title, got %q", notes[0].Title)
	}
}
