// Package llm wraps the OpenAI-compatible embedding and chat completion
// APIs behind the small interfaces the pipeline consumes.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is used for both document and query embeddings.
	// Both paths must share one model or retrieval relevance silently degrades.
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// DefaultEmbeddingDimensions is the output dimension of the default model.
	DefaultEmbeddingDimensions = 1536

	// DefaultChatModel is the fixed model used for answer synthesis.
	DefaultChatModel = "gpt-4o-mini"
)

var (
	// ErrEmptyInput is returned when there is nothing to embed
	ErrEmptyInput = errors.New("input text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// Config holds shared settings for the embedding and chat clients.
type Config struct {
	APIKey              string
	BaseURL             string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
	ChatModel           string
}

func newAPIClient(cfg Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// EmbeddingAPI is the slice of the OpenAI client the embedder needs.
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Embedder generates fixed-dimension vectors for documents and queries.
type Embedder struct {
	api        EmbeddingAPI
	model      openai.EmbeddingModel
	dimensions int
}

// NewEmbedder creates an Embedder backed by the OpenAI API.
func NewEmbedder(cfg Config) *Embedder {
	return NewEmbedderWithAPI(newAPIClient(cfg), cfg)
}

// NewEmbedderWithAPI creates an Embedder with an explicit API implementation.
func NewEmbedderWithAPI(api EmbeddingAPI, cfg Config) *Embedder {
	model := cfg.EmbeddingModel
	if model == "" {
		model = DefaultEmbeddingModel
	}
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &Embedder{api: api, model: model, dimensions: dimensions}
}

// Dimensions returns the expected embedding dimension.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// EmbedDocuments embeds a batch of texts in one call, preserving input order.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	// The API reports each vector's input position; place by index rather
	// than trusting response order.
	embeddings := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		if len(item.Embedding) != e.dimensions {
			return nil, ErrWrongDimensions
		}
		embeddings[item.Index] = item.Embedding
	}

	return embeddings, nil
}

// EmbedQuery embeds a single query string in the same embedding space as
// EmbedDocuments.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	embeddings, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}
