package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlab/cv-match/internal/models"
)

const quizResponse = `{
  "quiz_title": "Go Fundamentals",
  "quiz_description": "Core language knowledge",
  "estimated_duration": "30",
  "questions": [
    {
      "question": "What does a goroutine run on?",
      "options": ["A) A managed thread", "B) A managed thread", "C) An OS process", "a kernel thread"],
      "correct_answer": "0",
      "explanation": "Goroutines are multiplexed onto OS threads.",
      "skill_area": "Go",
      "difficulty": "intermediate"
    },
    {
      "question": "Which keyword declares a constant?",
      "options": ["const", "let"],
      "correct_answer": 7,
      "skill_area": "Go",
      "difficulty": "intermediate"
    },
    {
      "question": "",
      "options": ["x", "y", "z", "w"],
      "correct_answer": 1
    }
  ]
}`

func quizCV() *models.StructuredCV {
	return &models.StructuredCV{
		Name:   "Jordan Smith",
		Skills: []string{"Go", "Docker"},
		Education: []models.EducationItem{
			{Degree: "BSc Computer Science"},
		},
	}
}

func TestBuildQuizRepairsQuestions(t *testing.T) {
	gemini := &stubGemini{response: quizResponse}
	service := NewQuizService(gemini, 1)

	quiz, err := service.BuildQuiz(context.Background(), quizCV(), models.QuizIntermediate, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, "Go Fundamentals", quiz.Title)
	assert.Equal(t, models.QuizIntermediate, quiz.Level)
	assert.Equal(t, 30, quiz.EstimatedDurationMinutes)
	require.Len(t, quiz.Questions, 3)

	// First question: labels stripped, duplicate collapsed, padded back to 4.
	q := quiz.Questions[0]
	assert.Equal(t, []string{"A managed thread", "An OS process", "a kernel thread", "Option 4"}, q.Options)
	assert.Equal(t, 0, q.CorrectAnswer)

	// Second question: short option list padded, out-of-range answer reset.
	q = quiz.Questions[1]
	require.Len(t, q.Options, 4)
	assert.Equal(t, "const", q.Options[0])
	assert.Equal(t, 0, q.CorrectAnswer)

	// Third raw question has no text and is dropped; a placeholder fills the
	// remaining slot.
	q = quiz.Questions[2]
	assert.Contains(t, q.Question, "Placeholder")
	assert.Len(t, q.Options, 4)
}

func TestBuildQuizTruncatesToCount(t *testing.T) {
	gemini := &stubGemini{response: quizResponse}
	service := NewQuizService(gemini, 1)

	quiz, err := service.BuildQuiz(context.Background(), quizCV(), models.QuizBeginner, 1, nil)
	require.NoError(t, err)

	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "What does a goroutine run on?", quiz.Questions[0].Question)
}

func TestBuildQuizUnparseableResponse(t *testing.T) {
	gemini := &stubGemini{response: "I cannot generate a quiz right now."}
	service := NewQuizService(gemini, 1)

	quiz, err := service.BuildQuiz(context.Background(), quizCV(), models.QuizAdvanced, 2, nil)
	require.NoError(t, err)

	require.Len(t, quiz.Questions, 2)
	for _, q := range quiz.Questions {
		assert.Contains(t, q.Question, "Placeholder")
		assert.Len(t, q.Options, 4)
		assert.Equal(t, 0, q.CorrectAnswer)
	}
}

func TestBuildQuizGenerationFailure(t *testing.T) {
	gemini := &stubGemini{genErr: assert.AnError}
	service := NewQuizService(gemini, 1)

	_, err := service.BuildQuiz(context.Background(), quizCV(), models.QuizIntermediate, 5, nil)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestBuildQuizPromptCarriesFocusSkills(t *testing.T) {
	gemini := &stubGemini{response: quizResponse}
	service := NewQuizService(gemini, 1)

	_, err := service.BuildQuiz(context.Background(), quizCV(), models.QuizIntermediate, 10, []string{"Kubernetes", "Terraform"})
	require.NoError(t, err)

	require.Len(t, gemini.prompts, 1)
	prompt := gemini.prompts[0]
	assert.Contains(t, prompt, "Kubernetes, Terraform")
	// 60% of 10 questions go to the focus skills.
	assert.Contains(t, prompt, "at least 6 of the 10 questions")
	assert.Contains(t, prompt, "Jordan Smith")
	assert.Contains(t, prompt, "BSc Computer Science")
}

func TestBuildQuizFocusCountNeverZero(t *testing.T) {
	gemini := &stubGemini{response: quizResponse}
	service := NewQuizService(gemini, 1)

	_, err := service.BuildQuiz(context.Background(), quizCV(), models.QuizIntermediate, 1, []string{"Rust"})
	require.NoError(t, err)

	assert.Contains(t, gemini.prompts[0], "at least 1 of the 1 questions")
}

func TestRepairQuestionOptionUniqueness(t *testing.T) {
	repaired := repairQuestion(rawQuestion{
		Question: "Pick one",
		Options:  []string{"Option 3", "Option 3", "Option 3"},
	}, models.QuizBeginner)

	require.Len(t, repaired.Options, 4)
	seen := map[string]bool{}
	for _, opt := range repaired.Options {
		assert.False(t, seen[opt], "duplicate option %q", opt)
		seen[opt] = true
		assert.NotEqual(t, "", strings.TrimSpace(opt))
	}
}
