package services

import (
	"context"
	"strings"
)

// EmbeddingProvider turns texts into fixed-length vectors. Empty strings are
// filtered out before encoding; the returned slice holds one vector per
// non-empty input, in input order. Callers must check Available before use:
// a disabled provider fails every Embed call with ErrModelUnavailable rather
// than producing degenerate zero-vectors.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Available() bool
	ModelName() string
}

type geminiEmbedder struct {
	gemini    GeminiService
	modelName string
}

// NewGeminiEmbedder wraps the Gemini embedding API as an EmbeddingProvider.
// A nil gemini service yields a disabled provider.
func NewGeminiEmbedder(gemini GeminiService, modelName string) EmbeddingProvider {
	if modelName == "" {
		modelName = "gemini-embedding"
	}
	return &geminiEmbedder{gemini: gemini, modelName: modelName}
}

// Embed implements EmbeddingProvider. A single failed remote call fails the
// whole batch; partial results are never fabricated.
func (e *geminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !e.Available() {
		return nil, ErrModelUnavailable
	}

	cleaned := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	return e.gemini.GenerateEmbeddings(ctx, cleaned)
}

// Available implements EmbeddingProvider.
func (e *geminiEmbedder) Available() bool {
	return e != nil && e.gemini != nil
}

// ModelName implements EmbeddingProvider.
func (e *geminiEmbedder) ModelName() string {
	return e.modelName
}
