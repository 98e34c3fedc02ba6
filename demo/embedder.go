// Package demo wires an OpenAI embedding client in front of a
// collection, for the end-to-end demo command. It is not part of the
// engine's contract: collection.Upsert always takes pre-computed
// vectors, exactly as the spec requires.
package demo

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// EmbedderConfig configures the OpenAI-backed embedder.
type EmbedderConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Dimensions int
}

// Embedder turns text into the float32 vectors collection.Upsert expects.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// NewEmbedder builds an Embedder from cfg.
func NewEmbedder(cfg EmbedderConfig) (*Embedder, error) {
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}

	model := openai.AdaEmbeddingV2
	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = 1536
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(conf),
		model:      model,
		dimensions: dimensions,
	}, nil
}

// Embed vectorizes a single piece of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding generation failed: no data returned from OpenAI API")
	}
	return resp.Data[0].Embedding, nil
}

// EmbedBatch vectorizes multiple texts, order matching the input.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding generation failed: unexpected number of results from OpenAI API (got %d, expected %d)", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, data := range resp.Data {
		out[i] = data.Embedding
	}
	return out, nil
}

// Dimensions returns the configured vector width.
func (e *Embedder) Dimensions() int { return e.dimensions }
