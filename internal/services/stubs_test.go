package services

import (
	"context"
	"strings"

	"careerlab/cv-match/internal/models"
)

// stubGemini replays a canned response and records the prompts it saw.
type stubGemini struct {
	response string
	genErr   error
	prompts  []string
}

func (s *stubGemini) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

func (s *stubGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.genErr != nil {
		return "", s.genErr
	}
	return s.response, nil
}

func (s *stubGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return s.GenerateText(ctx, prompt, temperature)
}

// stubEmbedder returns a fixed vector per known text and a shared fallback
// vector for everything else, so section texts compare as identical unless a
// test pins them down.
type stubEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	err      error
	disabled bool
}

func newStubEmbedder(vectors map[string][]float32) *stubEmbedder {
	return &stubEmbedder{
		vectors:  vectors,
		fallback: []float32{0, 0, 1},
	}
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.disabled {
		return nil, ErrModelUnavailable
	}
	if s.err != nil {
		return nil, s.err
	}

	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if v, ok := s.vectors[text]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, s.fallback)
	}
	return out, nil
}

func (s *stubEmbedder) Available() bool { return !s.disabled }

func (s *stubEmbedder) ModelName() string { return "stub-embedding" }

// stubVerifier rewrites every question's correct answer to a fixed index.
type stubVerifier struct {
	forceAnswer int
	err         error
}

func (s *stubVerifier) VerifyQuestion(ctx context.Context, question models.QuizQuestion) (models.QuizQuestion, error) {
	verified := cloneQuestion(question)
	if s.err != nil {
		return verified, s.err
	}
	verified.CorrectAnswer = s.forceAnswer
	return verified, nil
}
