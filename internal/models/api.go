package models

type UploadResponse struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
	Warning  string `json:"warning,omitempty"`
}

type ParseCVRequest struct {
	CVText string `json:"cv_text"`
}

type ParseJobRequest struct {
	JobText string `json:"job_text"`
}

type MatchRequest struct {
	CV  *StructuredCV  `json:"cv"`
	Job *StructuredJob `json:"job"`
}

// MatchResponse wraps the similarity report with the advisory extras the
// report itself does not carry.
type MatchResponse struct {
	ID              string            `json:"id,omitempty"`
	Report          *SimilarityReport `json:"report"`
	GapSkills       []string          `json:"gap_skills"`
	MissingKeywords []string          `json:"missing_keywords"`
	Suggestions     []string          `json:"suggestions"`
}

type QuizGenerateRequest struct {
	CV          *StructuredCV `json:"cv"`
	Level       QuizLevel     `json:"level"`
	Count       int           `json:"count"`
	FocusSkills []string      `json:"focus_skills,omitempty"`
	// MatchID sources focus skills from a stored match's gap skills when
	// FocusSkills is empty.
	MatchID string `json:"match_id,omitempty"`
}

type QuizGenerateResponse struct {
	ID   string `json:"id"`
	Quiz *Quiz  `json:"quiz"`
}

type QuizEvaluateRequest struct {
	QuizID  string      `json:"quiz_id,omitempty"`
	Quiz    *Quiz       `json:"quiz,omitempty"`
	Answers map[int]int `json:"answers"`
	Verify  bool        `json:"verify"`
}

type SimilarJobsRequest struct {
	CV    *StructuredCV `json:"cv"`
	Limit int           `json:"limit,omitempty"`
}

type SimilarJobsResponse struct {
	Jobs []SimilarJob `json:"jobs"`
}

type SimilarJob struct {
	MatchID string  `json:"match_id"`
	Title   string  `json:"title"`
	Company string  `json:"company"`
	Score   float32 `json:"score"`
}
