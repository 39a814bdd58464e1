package qdrantdb

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

const (
	NoteCollectionName    = "note_vectors"
	ProfileCollectionName = "profile_vectors"
)

type Client struct {
	Client *qdrant.Client
}

func NewClient(host string, port int) (*Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port, // gRPC port
	})
	if err != nil {
		return nil, err
	}
	return &Client{Client: client}, nil
}

// EnsureCollections creates the note and profile collections if they do not
// exist. Both use cosine distance and carry a keyword index on user_id so
// ownership filters run inside the index query.
func (c *Client) EnsureCollections(ctx context.Context, vectorSize int) error {
	for _, name := range []string{NoteCollectionName, ProfileCollectionName} {
		exists, err := c.Client.CollectionExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		err = c.Client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("err create collection %s: %w", name, err)
		}

		_, err = c.Client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      "user_id",
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("err create user_id index on %s: %w", name, err)
		}
	}
	return nil
}
