package models

// QuizLevel is the requested difficulty of a generated quiz.
type QuizLevel string

const (
	QuizBeginner     QuizLevel = "beginner"
	QuizIntermediate QuizLevel = "intermediate"
	QuizAdvanced     QuizLevel = "advanced"
)

// QuizQuestion is one validated multiple-choice question. After validation
// Options always holds exactly 4 unique entries and CorrectAnswer indexes
// one of them.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	SkillArea     string   `json:"skill_area"`
	Difficulty    string   `json:"difficulty"`
}

// Quiz is a validated, ready-to-serve quiz.
type Quiz struct {
	Title                    string         `json:"title"`
	Description              string         `json:"description"`
	Level                    QuizLevel      `json:"level"`
	Questions                []QuizQuestion `json:"questions"`
	EstimatedDurationMinutes int            `json:"estimated_duration_minutes"`
}

// QuestionResult records how one question was answered. SelectedIndex is -1
// when the question was left unanswered.
type QuestionResult struct {
	SelectedIndex int  `json:"selected_index"`
	IsCorrect     bool `json:"is_correct"`
}

// QuizResult is the immutable outcome of scoring one answer set.
type QuizResult struct {
	PerQuestion []QuestionResult `json:"per_question"`
	Score       int              `json:"score"`
	Total       int              `json:"total"`
	Percentage  float64          `json:"percentage"`
}
