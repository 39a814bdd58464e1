package embedding

import "context"

// Client converts text to fixed-length embedding vectors.
// If you send 3 texts, you get 3 vectors, index-aligned with the input.
type Client interface {
	GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the length of every vector this client produces.
	Dimension() int
}
