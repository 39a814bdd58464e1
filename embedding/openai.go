package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient generates embeddings through the OpenAI embeddings API.
type OpenAIClient struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
	timeout   time.Duration
}

func NewOpenAIClient(client *openai.Client, model string, dimension int) *OpenAIClient {
	return &OpenAIClient{
		client:    client,
		model:     openai.EmbeddingModel(model),
		dimension: dimension,
		timeout:   30 * time.Second,
	}
}

func (c *OpenAIClient) GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, expected %d", len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		if len(d.Embedding) != c.dimension {
			return nil, fmt.Errorf("embedding %d has dimension %d, expected %d", i, len(d.Embedding), c.dimension)
		}
		embeddings[i] = d.Embedding
	}

	return embeddings, nil
}

func (c *OpenAIClient) Dimension() int {
	return c.dimension
}
