package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// maxEmbedBatch is the largest batch the embedding endpoint accepts.
const maxEmbedBatch = 100

// GeminiEmbedder turns text into embedding vectors with a Gemini embedding
// model. It satisfies matching.Embedder.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder creates an embedder for config.EmbeddingModel, or
// DefaultEmbeddingModel when unset.
func NewGeminiEmbedder(ctx context.Context, config *Config, apiKey string) (*GeminiEmbedder, error) {
	client, err := newGenaiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	model := DefaultEmbeddingModel
	if config != nil && config.EmbeddingModel != "" {
		model = config.EmbeddingModel
	}
	return &GeminiEmbedder{client: client, model: model}, nil
}

// Model returns the embedding model name.
func (e *GeminiEmbedder) Model() string {
	return e.model
}

// Embed embeds a single text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.EmbeddingModel(e.model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	if res == nil || res.Embedding == nil {
		return nil, fmt.Errorf("empty embedding in response")
	}
	return res.Embedding.Values, nil
}

// EmbedBatch embeds texts in order, splitting them into requests of at most
// 100 texts.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatch {
		end := min(start+maxEmbedBatch, len(texts))
		batch := em.NewBatch()
		for _, t := range texts[start:end] {
			batch.AddContent(genai.Text(t))
		}
		res, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch: %w", err)
		}
		if res == nil || len(res.Embeddings) != end-start {
			return nil, fmt.Errorf("embedding batch returned %d vectors for %d texts", embeddingCount(res), end-start)
		}
		for _, emb := range res.Embeddings {
			out = append(out, emb.Values)
		}
	}
	return out, nil
}

func embeddingCount(res *genai.BatchEmbedContentsResponse) int {
	if res == nil {
		return 0
	}
	return len(res.Embeddings)
}

// Close releases the underlying client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
