package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"careerlab/cv-match/internal/models"
)

const quizOptionCount = 4

// focusShare is the fraction of questions dedicated to focus skills when
// they are supplied.
const focusShare = 0.60

var levelRubrics = map[models.QuizLevel]string{
	models.QuizBeginner:     "Fundamental questions, basic concepts, simple syntax.",
	models.QuizIntermediate: "Practical applications, medium problem solving, integration of concepts.",
	models.QuizAdvanced:     "Optimization, architecture, complex cases, advanced best practices.",
}

// optionLabelRe matches a leading answer label such as "A) ", "b. " or "C: ".
var optionLabelRe = regexp.MustCompile(`^[A-Za-z][\)\.:\-]\s+`)

// QuizService builds validated quizzes from a candidate profile via the
// generation backend. Malformed generation output is always repaired locally;
// only a failed backend call surfaces as an error.
type QuizService interface {
	BuildQuiz(ctx context.Context, cv *models.StructuredCV, level models.QuizLevel, count int, focusSkills []string) (*models.Quiz, error)
}

type quizService struct {
	gemini     GeminiService
	maxRetries int
}

func NewQuizService(gemini GeminiService, maxRetries int) QuizService {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &quizService{gemini: gemini, maxRetries: maxRetries}
}

type rawQuiz struct {
	QuizTitle         string        `json:"quiz_title"`
	QuizDescription   string        `json:"quiz_description"`
	EstimatedDuration any           `json:"estimated_duration"`
	Questions         []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer any      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	SkillArea     string   `json:"skill_area"`
	Difficulty    string   `json:"difficulty"`
}

// BuildQuiz implements QuizService.
func (q *quizService) BuildQuiz(ctx context.Context, cv *models.StructuredCV, level models.QuizLevel, count int, focusSkills []string) (*models.Quiz, error) {
	if q.gemini == nil {
		return nil, fmt.Errorf("%w: no generation backend", ErrGenerationFailed)
	}
	if count <= 0 {
		count = 10
	}
	if _, ok := levelRubrics[level]; !ok {
		level = models.QuizIntermediate
	}

	prompt := buildQuizPrompt(cv, level, count, focusSkills)

	response, err := q.gemini.GenerateTextWithRetry(ctx, prompt, 0.7, q.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return repairQuiz(response, level, count), nil
}

func buildQuizPrompt(cv *models.StructuredCV, level models.QuizLevel, count int, focusSkills []string) string {
	name := "N/A"
	var skills []string
	degree := "N/A"
	experienceCount := 0
	if cv != nil {
		if cv.Name != "" {
			name = cv.Name
		}
		skills = cv.Skills
		if len(cv.Education) > 0 && cv.Education[0].Degree != "" {
			degree = cv.Education[0].Degree
		}
		experienceCount = len(cv.Experience)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`You are an expert technical recruiter. Generate a quiz of %d multiple-choice questions to evaluate a candidate.

CANDIDATE PROFILE:
- Name: %s
- Skills: %s
- Primary degree: %s
- Experience entries: %d
- Target level: %s

DIFFICULTY LEVEL "%s":
%s

STRICT INSTRUCTIONS:
1. Create exactly %d multiple-choice questions
2. Each question must have 4 options
3. Focus on the candidate's skills listed above
4. Respect the requested difficulty level
`, count, name, strings.Join(skills, ", "), degree, experienceCount,
		strings.ToUpper(string(level)), strings.ToUpper(string(level)), levelRubrics[level], count))

	if len(focusSkills) > 0 {
		focusCount := int(math.Round(focusShare * float64(count)))
		if focusCount < 1 {
			focusCount = 1
		}
		sb.WriteString(fmt.Sprintf("5. Dedicate at least %d of the %d questions to these priority skills: %s\n",
			focusCount, count, strings.Join(focusSkills, ", ")))
	}

	sb.WriteString(fmt.Sprintf(`
RESPONSE FORMAT (strict JSON, IMPORTANT):
Answer ONLY with the following JSON, no text before or after:

{
  "quiz_title": "Quiz title",
  "quiz_description": "What the quiz evaluates",
  "estimated_duration": 15,
  "questions": [
    {
      "question": "Your question here",
      "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
      "correct_answer": 0,
      "explanation": "Detailed explanation",
      "skill_area": "Skill name",
      "difficulty": "%s"
    }
  ]
}

Generate exactly %d questions in the format above.`, level, count))

	return sb.String()
}

// repairQuiz turns a best-effort JSON response into a well-formed quiz with
// exactly count questions. JSON malformation is never surfaced; a response
// yielding zero valid questions produces placeholder questions that signal
// degraded generation without hard failure.
func repairQuiz(response string, level models.QuizLevel, count int) *models.Quiz {
	var parsed rawQuiz
	if raw, err := ExtractJSONObject(response); err == nil {
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			log.Printf("⚠️  Quiz response JSON did not unmarshal, padding with placeholders: %v\n", err)
		}
	} else {
		log.Printf("⚠️  Quiz response held no JSON object, padding with placeholders\n")
	}

	questions := make([]models.QuizQuestion, 0, count)
	for _, rq := range parsed.Questions {
		if strings.TrimSpace(rq.Question) == "" {
			continue
		}
		questions = append(questions, repairQuestion(rq, level))
		if len(questions) == count {
			break
		}
	}

	for len(questions) < count {
		questions = append(questions, placeholderQuestion(len(questions)+1, level))
	}

	title := strings.TrimSpace(parsed.QuizTitle)
	if title == "" {
		title = fmt.Sprintf("Technical Quiz (%s)", level)
	}
	description := strings.TrimSpace(parsed.QuizDescription)
	if description == "" {
		description = fmt.Sprintf("Evaluation of %s-level technical skills", level)
	}

	duration := coerceInt(parsed.EstimatedDuration, 0)
	if duration <= 0 {
		duration = count * 2
	}

	return &models.Quiz{
		Title:                    title,
		Description:              description,
		Level:                    level,
		Questions:                questions,
		EstimatedDurationMinutes: duration,
	}
}

func repairQuestion(rq rawQuestion, level models.QuizLevel) models.QuizQuestion {
	options := make([]string, 0, quizOptionCount)
	seen := make(map[string]struct{})
	for _, opt := range rq.Options {
		opt = strings.TrimSpace(optionLabelRe.ReplaceAllString(strings.TrimSpace(opt), ""))
		if opt == "" {
			continue
		}
		if _, ok := seen[opt]; ok {
			continue
		}
		seen[opt] = struct{}{}
		options = append(options, opt)
		if len(options) == quizOptionCount {
			break
		}
	}
	for i := len(options); i < quizOptionCount; i++ {
		placeholder := fmt.Sprintf("Option %d", i+1)
		for {
			if _, ok := seen[placeholder]; !ok {
				break
			}
			placeholder += "."
		}
		seen[placeholder] = struct{}{}
		options = append(options, placeholder)
	}

	correct := coerceInt(rq.CorrectAnswer, 0)
	if correct < 0 || correct >= len(options) {
		correct = 0
	}

	difficulty := strings.TrimSpace(rq.Difficulty)
	if difficulty == "" {
		difficulty = string(level)
	}
	skillArea := strings.TrimSpace(rq.SkillArea)
	if skillArea == "" {
		skillArea = "General"
	}

	return models.QuizQuestion{
		Question:      strings.TrimSpace(rq.Question),
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   strings.TrimSpace(rq.Explanation),
		SkillArea:     skillArea,
		Difficulty:    difficulty,
	}
}

// placeholderQuestion marks a slot the generation backend failed to fill.
func placeholderQuestion(n int, level models.QuizLevel) models.QuizQuestion {
	return models.QuizQuestion{
		Question:      fmt.Sprintf("Placeholder question %d (generation incomplete)", n),
		Options:       []string{"Option 1", "Option 2", "Option 3", "Option 4"},
		CorrectAnswer: 0,
		Explanation:   "This question could not be generated. Regenerate the quiz.",
		SkillArea:     "General",
		Difficulty:    string(level),
	}
}

func coerceInt(v any, fallback int) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return fallback
}
