package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"careerlab/cv-match/internal/models"
)

// QuizVerifier double-checks the marked correct answer of a question against
// the generation backend. It returns a corrected copy of the question; the
// input question is never mutated.
type QuizVerifier interface {
	VerifyQuestion(ctx context.Context, question models.QuizQuestion) (models.QuizQuestion, error)
}

type geminiVerifier struct {
	gemini GeminiService
}

func NewGeminiVerifier(gemini GeminiService) QuizVerifier {
	return &geminiVerifier{gemini: gemini}
}

// VerifyQuestion implements QuizVerifier.
func (v *geminiVerifier) VerifyQuestion(ctx context.Context, question models.QuizQuestion) (models.QuizQuestion, error) {
	verified := cloneQuestion(question)
	if v.gemini == nil {
		return verified, fmt.Errorf("no generation backend")
	}

	prompt := buildVerificationPrompt(question)
	response, err := v.gemini.GenerateText(ctx, prompt, 0.0)
	if err != nil {
		return verified, fmt.Errorf("failed to verify question: %w", err)
	}

	raw, err := ExtractJSONObject(response)
	if err != nil {
		return verified, fmt.Errorf("failed to verify question: %w", err)
	}

	var check struct {
		CorrectAnswer any    `json:"correct_answer"`
		Explanation   string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(raw), &check); err != nil {
		return verified, fmt.Errorf("failed to verify question: %w", err)
	}

	idx := coerceInt(check.CorrectAnswer, verified.CorrectAnswer)
	if idx >= 0 && idx < len(verified.Options) && idx != verified.CorrectAnswer {
		log.Printf("🔄 Verification moved correct answer from %d to %d for question %q\n",
			verified.CorrectAnswer, idx, truncate(verified.Question, 60))
		verified.CorrectAnswer = idx
		if explanation := strings.TrimSpace(check.Explanation); explanation != "" {
			verified.Explanation = explanation
		}
	}
	return verified, nil
}

func buildVerificationPrompt(question models.QuizQuestion) string {
	var sb strings.Builder
	sb.WriteString("You are reviewing a multiple-choice question. Determine the index (0-3) of the truly correct option.\n\n")
	sb.WriteString(fmt.Sprintf("QUESTION: %s\n", question.Question))
	for i, opt := range question.Options {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i, opt))
	}
	sb.WriteString(fmt.Sprintf("\nMarked answer: %d\n", question.CorrectAnswer))
	sb.WriteString(`
Answer ONLY with the following JSON, no text before or after:

{
  "correct_answer": 0,
  "explanation": "Why this option is correct"
}`)
	return sb.String()
}

// QuizEvaluator scores submitted answers against a quiz. Verification builds
// a corrected copy of the quiz first; the caller's quiz is left untouched and
// any verification failure falls back to the original question.
type QuizEvaluator interface {
	Evaluate(quiz *models.Quiz, answers map[int]int) *models.QuizResult
	VerifyQuiz(ctx context.Context, quiz *models.Quiz) *models.Quiz
}

type quizEvaluator struct {
	verifier QuizVerifier
}

func NewQuizEvaluator(verifier QuizVerifier) QuizEvaluator {
	return &quizEvaluator{verifier: verifier}
}

// Evaluate implements QuizEvaluator. Unanswered questions count as incorrect
// with a selected index of -1.
func (e *quizEvaluator) Evaluate(quiz *models.Quiz, answers map[int]int) *models.QuizResult {
	result := &models.QuizResult{
		PerQuestion: []models.QuestionResult{},
	}
	if quiz == nil {
		return result
	}

	result.Total = len(quiz.Questions)
	result.PerQuestion = make([]models.QuestionResult, 0, result.Total)
	for i, question := range quiz.Questions {
		selected, answered := answers[i]
		if !answered {
			selected = -1
		}
		correct := answered && selected == question.CorrectAnswer
		if correct {
			result.Score++
		}
		result.PerQuestion = append(result.PerQuestion, models.QuestionResult{
			SelectedIndex: selected,
			IsCorrect:     correct,
		})
	}

	if result.Total > 0 {
		result.Percentage = round2(float64(result.Score) / float64(result.Total) * 100)
	}
	return result
}

// VerifyQuiz implements QuizEvaluator. It returns a deep copy of the quiz
// with each question re-checked by the verifier. Per-question verification
// failures are absorbed and the original question is kept.
func (e *quizEvaluator) VerifyQuiz(ctx context.Context, quiz *models.Quiz) *models.Quiz {
	if quiz == nil {
		return nil
	}

	verified := *quiz
	verified.Questions = make([]models.QuizQuestion, len(quiz.Questions))
	for i, question := range quiz.Questions {
		if e.verifier == nil {
			verified.Questions[i] = cloneQuestion(question)
			continue
		}
		checked, err := e.verifier.VerifyQuestion(ctx, question)
		if err != nil {
			log.Printf("⚠️  Keeping original answer for question %d: %v\n", i, err)
			verified.Questions[i] = cloneQuestion(question)
			continue
		}
		verified.Questions[i] = checked
	}
	return &verified
}

func cloneQuestion(question models.QuizQuestion) models.QuizQuestion {
	clone := question
	clone.Options = append([]string(nil), question.Options...)
	return clone
}
