package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlab/cv-match/internal/models"
)

func fullCV() *models.StructuredCV {
	return &models.StructuredCV{
		Name:   "Jordan Smith",
		Skills: []string{"Go"},
		Education: []models.EducationItem{
			{Degree: "MSc Computer Science", Institution: "ETH"},
		},
		Experience: []models.ExperienceItem{
			{Title: "Backend Engineer", Company: "Acme", Description: "Built Go microservices"},
		},
	}
}

func fullJob() *models.StructuredJob {
	return &models.StructuredJob{
		Title:              "Senior Backend Engineer",
		Company:            "Globex",
		RequiredSkills:     []string{"Go"},
		ExperienceRequired: "5 years backend development",
		EducationRequired:  "Masters degree",
	}
}

func TestScoreModelUnavailable(t *testing.T) {
	embedder := newStubEmbedder(nil)
	embedder.disabled = true
	matcher := NewMatcherService(embedder)

	_, err := matcher.Score(context.Background(), fullCV(), fullJob())
	require.ErrorIs(t, err, ErrModelUnavailable)

	_, err = NewMatcherService(nil).Score(context.Background(), fullCV(), fullJob())
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func TestScorePerfectMatch(t *testing.T) {
	// Every text maps to the fallback vector, so all similarities are 1.
	matcher := NewMatcherService(newStubEmbedder(nil))

	report, err := matcher.Score(context.Background(), fullCV(), fullJob())
	require.NoError(t, err)

	assert.Equal(t, 100.0, report.OverallScore)
	assert.Equal(t, models.LevelExcellent, report.Level)
	assert.Equal(t, "stub-embedding", report.ModelUsed)
	assert.Equal(t, 100.0, report.SkillCoverage)
	assert.Equal(t, 100.0, report.AverageSkillSimilarity)
	for _, section := range []string{SectionGlobal, SectionSkills, SectionExperience, SectionEducation} {
		assert.Equal(t, 100.0, report.SectionalScores[section], section)
	}
	require.Len(t, report.TopSkillMatches, 1)
	assert.Equal(t, "Go", report.TopSkillMatches[0].JobSkill)
	assert.InDelta(t, 1.0, report.TopSkillMatches[0].Similarity, 1e-9)
}

func TestScoreIsDeterministic(t *testing.T) {
	matcher := NewMatcherService(newStubEmbedder(map[string][]float32{
		"Go":     {1, 0, 0},
		"Python": {0, 1, 0},
	}))

	cv := fullCV()
	cv.Skills = []string{"Go", "Python"}
	job := fullJob()
	job.RequiredSkills = []string{"Python", "Go"}

	first, err := matcher.Score(context.Background(), cv, job)
	require.NoError(t, err)
	second, err := matcher.Score(context.Background(), cv, job)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScoreEmptyCV(t *testing.T) {
	matcher := NewMatcherService(newStubEmbedder(nil))

	report, err := matcher.Score(context.Background(), &models.StructuredCV{}, fullJob())
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.OverallScore)
	assert.Equal(t, models.LevelWeak, report.Level)
	assert.Empty(t, report.TopSkillMatches)
	assert.Equal(t, 0.0, report.SkillCoverage)
}

func TestSkillTieBreakKeepsFirstCandidate(t *testing.T) {
	// Both candidate skills are equally similar to the required skill; the
	// first one in CV order must win.
	matcher := NewMatcherService(newStubEmbedder(map[string][]float32{
		"Go":      {1, 0, 0},
		"Golang":  {1, 0, 0},
		"Backend": {1, 0, 0},
	}))

	cv := fullCV()
	cv.Skills = []string{"Go", "Golang"}
	job := fullJob()
	job.RequiredSkills = []string{"Backend"}

	report, err := matcher.Score(context.Background(), cv, job)
	require.NoError(t, err)

	require.Len(t, report.TopSkillMatches, 1)
	assert.Equal(t, "Go", report.TopSkillMatches[0].MatchedCandidateSkill)
}

func TestMatchGapsAndMissingKeywords(t *testing.T) {
	matcher := NewMatcherService(newStubEmbedder(map[string][]float32{
		"Go":     {1, 0, 0},
		"Docker": {0, 1, 0},
		"Rust":   {0.5, 0.5, 0.7071068},
	}))

	cv := fullCV()
	cv.Skills = []string{"Go", "Docker"}
	job := fullJob()
	job.RequiredSkills = []string{"Go", "Rust"}

	response, err := matcher.Match(context.Background(), cv, job)
	require.NoError(t, err)

	// Go matches exactly; Rust tops out at 0.5 against both candidate
	// skills, below the coverage threshold.
	assert.Equal(t, []string{"Rust"}, response.GapSkills)
	assert.Equal(t, []string{"Rust"}, response.MissingKeywords)
	assert.Equal(t, 50.0, response.Report.SkillCoverage)

	require.NotEmpty(t, response.Suggestions)
	assert.Contains(t, response.Suggestions[len(response.Suggestions)-1], "Rust")
}

func TestScoreWeightedCombination(t *testing.T) {
	// Pin a distinct similarity per section so the 0.40/0.35/0.15/0.10
	// weights are distinguishable: global 0.5, skills 0.8, experience 0.0,
	// education 0.6.
	cv := &models.StructuredCV{
		Skills:     []string{"Go"},
		Experience: []models.ExperienceItem{{Title: "Dev", Description: "x"}},
		Education:  []models.EducationItem{{Degree: "BSc", Institution: "Y"}},
	}
	job := &models.StructuredJob{
		Title:              "T",
		RequiredSkills:     []string{"Go2"},
		ExperienceRequired: "exp req",
		EducationRequired:  "edu req",
	}

	matcher := NewMatcherService(newStubEmbedder(map[string][]float32{
		"Go":                    {1, 0, 0},
		"Go2":                   {0.8, 0.6, 0},
		"Dev x":                 {1, 0, 0},
		"exp req":               {0, 1, 0},
		"BSc Y":                 {1, 0, 0},
		"edu req":               {0.6, 0.8, 0},
		"Go Dev x BSc Y":        {1, 0, 0},
		"T Go2 exp req edu req": {0.5, 0.5, 0.7071068},
	}))

	report, err := matcher.Score(context.Background(), cv, job)
	require.NoError(t, err)

	assert.Equal(t, 50.0, report.SectionalScores[SectionGlobal])
	assert.Equal(t, 0.0, report.SectionalScores[SectionExperience])
	assert.Equal(t, 60.0, report.SectionalScores[SectionEducation])
	assert.Equal(t, 80.0, report.AverageSkillSimilarity)

	// 0.40*50 + 0.35*80 + 0.15*0 + 0.10*60
	assert.Equal(t, 54.0, report.OverallScore)
	assert.Equal(t, models.LevelModerate, report.Level)

	expected := 0.40*report.SectionalScores[SectionGlobal] +
		0.35*report.AverageSkillSimilarity +
		0.15*report.SectionalScores[SectionExperience] +
		0.10*report.SectionalScores[SectionEducation]
	assert.InDelta(t, expected, report.OverallScore, 0.01)
}

func TestFormatReport(t *testing.T) {
	matcher := NewMatcherService(newStubEmbedder(nil))

	report, err := matcher.Score(context.Background(), fullCV(), fullJob())
	require.NoError(t, err)

	text := matcher.FormatReport(report)
	assert.Contains(t, text, "=== SIMILARITY REPORT ===")
	assert.Contains(t, text, "Overall score: 100.00% (Excellent)")
	assert.Contains(t, text, "Model used: stub-embedding")
	assert.Contains(t, text, "- global: 100.00%")
	assert.Contains(t, text, "- education: 100.00%")
	assert.Contains(t, text, "Go → Go (100.0%)")

	assert.Equal(t, "", matcher.FormatReport(nil))
}

func TestScoreLevelBands(t *testing.T) {
	cases := []struct {
		score float64
		level models.MatchLevel
	}{
		{100, models.LevelExcellent},
		{85, models.LevelExcellent},
		{84.99, models.LevelVeryGood},
		{70, models.LevelVeryGood},
		{69.99, models.LevelGood},
		{55, models.LevelGood},
		{54.99, models.LevelModerate},
		{40, models.LevelModerate},
		{39.99, models.LevelWeak},
		{0, models.LevelWeak},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, scoreLevel(tc.score), "score %.2f", tc.score)
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Zero vectors have no direction; similarity is defined as 0.
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}

func TestSectionEmbeddingFailureIsAbsorbed(t *testing.T) {
	embedder := newStubEmbedder(nil)
	matcher := NewMatcherService(embedder).(*matcherService)

	sim := matcher.sectionSimilarity(context.Background(), SectionSkills, "", "Go")
	assert.Equal(t, 0.0, sim)

	embedder.err = assert.AnError
	sim = matcher.sectionSimilarity(context.Background(), SectionSkills, "Go", "Go")
	assert.Equal(t, 0.0, sim)
}
