package notestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"noteboard/repository"
)

var (
	notesBucket     = []byte("notes")
	userIndexBucket = []byte("user_index")
)

// Store is the bbolt-backed source of truth for notes. Vector indexes are
// derived from it; on disagreement the store wins.
type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for note store: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open note store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(notesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(userIndexBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Put(_ context.Context, note *repository.Note) error {
	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(notesBucket).Put([]byte(note.ID), data); err != nil {
			return err
		}
		return tx.Bucket(userIndexBucket).Put(indexKey(note.UserID, note.ID), nil)
	})
}

func (s *Store) GetByID(_ context.Context, id string) (*repository.Note, error) {
	var note *repository.Note
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(notesBucket).Get([]byte(id))
		if data == nil {
			return repository.ErrNoteNotFound
		}
		note = &repository.Note{}
		return json.Unmarshal(data, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(notesBucket)
		data := b.Get([]byte(id))
		if data == nil {
			return repository.ErrNoteNotFound
		}

		var note repository.Note
		if err := json.Unmarshal(data, &note); err != nil {
			return fmt.Errorf("failed to unmarshal note: %w", err)
		}

		if err := b.Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(userIndexBucket).Delete(indexKey(note.UserID, id))
	})
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]*repository.Note, error) {
	var notes []*repository.Note
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(notesBucket)
		c := tx.Bucket(userIndexBucket).Cursor()
		prefix := indexKey(userID, "")

		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			id := k[len(prefix):]
			data := b.Get(id)
			if data == nil {
				continue
			}
			note := &repository.Note{}
			if err := json.Unmarshal(data, note); err != nil {
				return fmt.Errorf("failed to unmarshal note %s: %w", id, err)
			}
			notes = append(notes, note)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func indexKey(userID, noteID string) []byte {
	return []byte(userID + "/" + noteID)
}
