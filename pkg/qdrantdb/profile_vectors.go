package qdrantdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"noteboard/repository"
)

// ProfileVectors implements repository.ProfileVectorRepo on the profile
// collection. There is at most one point per user; point IDs are derived
// deterministically from the user ID so an upsert replaces the old profile.
type ProfileVectors struct {
	client *Client
}

var profileNamespace = uuid.MustParse("6c3f9e52-8a41-4b7d-9f0e-2d5b1c7a8e93")

func NewProfileVectors(client *Client) *ProfileVectors {
	return &ProfileVectors{client: client}
}

func profilePointID(userID string) string {
	return uuid.NewSHA1(profileNamespace, []byte(userID)).String()
}

func (p *ProfileVectors) UpsertProfile(ctx context.Context, userID string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(profilePointID(userID)),
		Vectors: qdrant.NewVectorsDense(embedding),
		Payload: qdrant.NewValueMap(map[string]any{"user_id": userID}),
	}

	_, err := p.client.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: ProfileCollectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("err upsert profile vector: %w", err)
	}
	return nil
}

func (p *ProfileVectors) GetProfile(ctx context.Context, userID string) ([]float32, error) {
	points, err := p.client.Client.Get(ctx, &qdrant.GetPoints{
		CollectionName: ProfileCollectionName,
		Ids:            []*qdrant.PointId{qdrant.NewID(profilePointID(userID))},
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("err get profile vector: %w", err)
	}
	if len(points) == 0 {
		return nil, repository.ErrProfileNotFound
	}

	vec := points[0].GetVectors().GetVector().GetData()
	if len(vec) == 0 {
		return nil, repository.ErrProfileNotFound
	}
	return vec, nil
}

// SearchProfiles returns the profiles nearest to queryVector, excluding the
// querying user's own profile inside the index filter.
func (p *ProfileVectors) SearchProfiles(ctx context.Context, queryVector []float32, excludeUserID string, limit int) ([]repository.RetrievalMatch, error) {
	points, err := p.client.Client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ProfileCollectionName,
		Query:          qdrant.NewQueryDense(queryVector),
		Filter: &qdrant.Filter{
			MustNot: []*qdrant.Condition{
				qdrant.NewMatch("user_id", excludeUserID),
			},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("err search profile vectors: %w", err)
	}

	matches := make([]repository.RetrievalMatch, 0, len(points))
	for _, pt := range points {
		matches = append(matches, repository.RetrievalMatch{
			ID:     pt.GetId().GetUuid(),
			Score:  pt.GetScore(),
			UserID: pt.GetPayload()["user_id"].GetStringValue(),
		})
	}
	return matches, nil
}
