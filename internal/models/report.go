package models

// MatchLevel is the qualitative band of an overall similarity score.
type MatchLevel string

const (
	LevelExcellent MatchLevel = "Excellent"
	LevelVeryGood  MatchLevel = "VeryGood"
	LevelGood      MatchLevel = "Good"
	LevelModerate  MatchLevel = "Moderate"
	LevelWeak      MatchLevel = "Weak"
)

// SkillMatch pairs one required job skill with the candidate skill closest
// to it in embedding space. Ties go to the first candidate skill in list
// order.
type SkillMatch struct {
	JobSkill              string  `json:"job_skill"`
	MatchedCandidateSkill string  `json:"matched_candidate_skill"`
	Similarity            float64 `json:"similarity"`
}

// SimilarityReport is the full output of one CV/job comparison. All scores
// are percentages in [0,100]; OverallScore is the fixed weighted combination
// of the sectional and skill scores.
type SimilarityReport struct {
	OverallScore           float64            `json:"overall_score"`
	Level                  MatchLevel         `json:"level"`
	ModelUsed              string             `json:"model_used"`
	SectionalScores        map[string]float64 `json:"sectional_scores"`
	SkillCoverage          float64            `json:"skill_coverage"`
	AverageSkillSimilarity float64            `json:"average_skill_similarity"`
	TopSkillMatches        []SkillMatch       `json:"top_skill_matches"`
}
