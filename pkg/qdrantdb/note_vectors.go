package qdrantdb

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"noteboard/repository"
)

// NoteVectors implements repository.NoteVectorRepo on the note collection.
type NoteVectors struct {
	client *Client
}

func NewNoteVectors(client *Client) *NoteVectors {
	return &NoteVectors{client: client}
}

func (n *NoteVectors) UpsertNote(ctx context.Context, note *repository.Note) error {
	md := map[string]any{
		"user_id": note.UserID,
		"title":   note.Title,
		"content": note.Content,
	}
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(note.ID),
		Vectors: qdrant.NewVectorsDense(note.Embedding),
		Payload: qdrant.NewValueMap(md),
	}

	_, err := n.client.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: NoteCollectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("err upsert note vector: %w", err)
	}
	return nil
}

func (n *NoteVectors) DeleteNote(ctx context.Context, id string) error {
	_, err := n.client.Client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: NoteCollectionName,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(id)),
	})
	if err != nil {
		return fmt.Errorf("err delete note vector: %w", err)
	}
	return nil
}

// SearchNotes returns the userID-owned notes nearest to queryVector. The
// ownership match is part of the query filter, so the caller gets exact
// top-K within the owner's notes.
func (n *NoteVectors) SearchNotes(ctx context.Context, queryVector []float32, userID string, limit, candidates int) ([]repository.RetrievalMatch, error) {
	points, err := n.client.Client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: NoteCollectionName,
		Query:          qdrant.NewQueryDense(queryVector),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("user_id", userID),
			},
		},
		Limit: qdrant.PtrOf(uint64(limit)),
		Params: &qdrant.SearchParams{
			HnswEf: qdrant.PtrOf(uint64(candidates)),
		},
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("err search note vectors: %w", err)
	}

	matches := make([]repository.RetrievalMatch, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		matches = append(matches, repository.RetrievalMatch{
			ID:      p.GetId().GetUuid(),
			Score:   p.GetScore(),
			UserID:  payload["user_id"].GetStringValue(),
			Title:   payload["title"].GetStringValue(),
			Content: payload["content"].GetStringValue(),
		})
	}
	return matches, nil
}
