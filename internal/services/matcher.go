package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"careerlab/cv-match/internal/models"
)

// Composite score weights. Fixed configuration constants summing to 1.0;
// swap here, nowhere else.
const (
	weightGlobal     = 0.40
	weightSkills     = 0.35
	weightExperience = 0.15
	weightEducation  = 0.10
)

// skillCoverageThreshold is the minimum best-match similarity for a required
// skill to count as covered. Tunable constant, not derived from data.
const skillCoverageThreshold = 0.70

const maxTopSkillMatches = 5

type MatcherService interface {
	Score(ctx context.Context, cv *models.StructuredCV, job *models.StructuredJob) (*models.SimilarityReport, error)
	Match(ctx context.Context, cv *models.StructuredCV, job *models.StructuredJob) (*models.MatchResponse, error)
	FormatReport(report *models.SimilarityReport) string
}

type matcherService struct {
	embedder EmbeddingProvider
}

func NewMatcherService(embedder EmbeddingProvider) MatcherService {
	return &matcherService{embedder: embedder}
}

// Score implements MatcherService. Embedding failures for an individual
// section are absorbed as 0.0 similarity; total provider unavailability
// fails the whole call with ErrModelUnavailable.
func (m *matcherService) Score(ctx context.Context, cv *models.StructuredCV, job *models.StructuredJob) (*models.SimilarityReport, error) {
	report, _, err := m.score(ctx, cv, job)
	return report, err
}

// Match implements MatcherService. It wraps Score with the advisory extras:
// gap skills (all required skills at or below the coverage threshold),
// literal missing keywords, and score-band suggestions.
func (m *matcherService) Match(ctx context.Context, cv *models.StructuredCV, job *models.StructuredJob) (*models.MatchResponse, error) {
	report, matches, err := m.score(ctx, cv, job)
	if err != nil {
		return nil, err
	}

	gaps := make([]string, 0)
	for _, match := range matches {
		if match.Similarity <= skillCoverageThreshold {
			gaps = append(gaps, match.JobSkill)
		}
	}

	missing := missingKeywords(cv, job)

	return &models.MatchResponse{
		Report:          report,
		GapSkills:       gaps,
		MissingKeywords: missing,
		Suggestions:     suggestions(report.OverallScore, missing),
	}, nil
}

func (m *matcherService) score(ctx context.Context, cv *models.StructuredCV, job *models.StructuredJob) (*models.SimilarityReport, []models.SkillMatch, error) {
	if m.embedder == nil || !m.embedder.Available() {
		return nil, nil, ErrModelUnavailable
	}

	cvSections := ExtractCVSections(cv)
	jobSections := ExtractJobSections(job)

	sectional := map[string]float64{}
	for _, section := range []string{SectionSkills, SectionExperience, SectionEducation, SectionGlobal} {
		sectional[section] = m.sectionSimilarity(ctx, section, cvSections[section], jobSections[section])
	}

	var cvSkills, jobSkills []string
	if cv != nil {
		cvSkills = cv.Skills
	}
	if job != nil {
		jobSkills = job.RequiredSkills
	}
	avgSkill, coverage, matches := m.skillAnalysis(ctx, cvSkills, jobSkills)

	composite := sectional[SectionGlobal]*weightGlobal +
		avgSkill*weightSkills +
		sectional[SectionExperience]*weightExperience +
		sectional[SectionEducation]*weightEducation

	scorePct := round2(composite * 100)

	sectionalPct := make(map[string]float64, len(sectional))
	for section, sim := range sectional {
		sectionalPct[section] = round2(sim * 100)
	}

	report := &models.SimilarityReport{
		OverallScore:           scorePct,
		Level:                  scoreLevel(scorePct),
		ModelUsed:              m.embedder.ModelName(),
		SectionalScores:        sectionalPct,
		SkillCoverage:          round2(coverage * 100),
		AverageSkillSimilarity: round2(avgSkill * 100),
		TopSkillMatches:        topMatches(matches, maxTopSkillMatches),
	}
	return report, matches, nil
}

// sectionSimilarity embeds the section pair as a batch of exactly two and
// returns their cosine similarity floored at 0. Either side empty means 0.0.
func (m *matcherService) sectionSimilarity(ctx context.Context, section, cvText, jobText string) float64 {
	if strings.TrimSpace(cvText) == "" || strings.TrimSpace(jobText) == "" {
		return 0.0
	}

	vectors, err := m.embedder.Embed(ctx, []string{cvText, jobText})
	if err != nil || len(vectors) != 2 {
		log.Printf("⚠️  Section %q embedding failed, scoring 0: %v\n", section, err)
		return 0.0
	}

	return math.Max(0, cosineSimilarity(vectors[0], vectors[1]))
}

// skillAnalysis embeds every candidate and required skill in one batch
// (candidate skills first, both in original order) and matches each required
// skill to its closest candidate skill. Ties keep the first candidate skill
// in list order.
func (m *matcherService) skillAnalysis(ctx context.Context, cvSkills, jobSkills []string) (avg, coverage float64, matches []models.SkillMatch) {
	cvSkills = dropBlank(cvSkills)
	jobSkills = dropBlank(jobSkills)
	if len(cvSkills) == 0 || len(jobSkills) == 0 {
		return 0, 0, nil
	}

	all := make([]string, 0, len(cvSkills)+len(jobSkills))
	all = append(all, cvSkills...)
	all = append(all, jobSkills...)

	vectors, err := m.embedder.Embed(ctx, all)
	if err != nil || len(vectors) != len(all) {
		log.Printf("⚠️  Skill embedding failed, scoring 0: %v\n", err)
		return 0, 0, nil
	}

	cvVecs := vectors[:len(cvSkills)]
	jobVecs := vectors[len(cvSkills):]

	var sum float64
	covered := 0
	matches = make([]models.SkillMatch, 0, len(jobSkills))
	for i, jobSkill := range jobSkills {
		bestIdx := 0
		bestSim := cosineSimilarity(jobVecs[i], cvVecs[0])
		for j := 1; j < len(cvVecs); j++ {
			if sim := cosineSimilarity(jobVecs[i], cvVecs[j]); sim > bestSim {
				bestSim = sim
				bestIdx = j
			}
		}

		bestSim = math.Max(0, bestSim)
		matches = append(matches, models.SkillMatch{
			JobSkill:              jobSkill,
			MatchedCandidateSkill: cvSkills[bestIdx],
			Similarity:            bestSim,
		})
		sum += bestSim
		if bestSim > skillCoverageThreshold {
			covered++
		}
	}

	avg = sum / float64(len(jobSkills))
	coverage = float64(covered) / float64(len(jobSkills))
	return avg, coverage, matches
}

// missingKeywords lists required skills with no case-insensitive literal
// counterpart in the candidate skill list.
func missingKeywords(cv *models.StructuredCV, job *models.StructuredJob) []string {
	if cv == nil || job == nil || len(job.RequiredSkills) == 0 || len(cv.Skills) == 0 {
		return nil
	}

	have := make(map[string]struct{}, len(cv.Skills))
	for _, skill := range cv.Skills {
		have[strings.ToLower(skill)] = struct{}{}
	}

	missing := make([]string, 0)
	for _, skill := range job.RequiredSkills {
		if _, ok := have[strings.ToLower(skill)]; !ok {
			missing = append(missing, skill)
		}
	}
	return missing
}

func suggestions(overallScore float64, missing []string) []string {
	out := make([]string, 0, 2)
	switch {
	case overallScore < 40:
		out = append(out, "Your profile seems poorly suited to this position")
	case overallScore < 55:
		out = append(out, "Add more of the technical skills mentioned in the posting")
	case overallScore < 70:
		out = append(out, "Highlight your relevant experience")
	default:
		out = append(out, "Excellent match! Emphasize your strengths")
	}

	if len(missing) > 0 {
		limit := len(missing)
		if limit > 3 {
			limit = 3
		}
		out = append(out, fmt.Sprintf("Consider acquiring these skills: %s", strings.Join(missing[:limit], ", ")))
	}

	return out
}

// FormatReport implements MatcherService.
func (m *matcherService) FormatReport(report *models.SimilarityReport) string {
	if report == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("=== SIMILARITY REPORT ===\n")
	sb.WriteString(fmt.Sprintf("Overall score: %.2f%% (%s)\n", report.OverallScore, report.Level))
	sb.WriteString(fmt.Sprintf("Model used: %s\n\n", report.ModelUsed))
	sb.WriteString("Scores by section:\n")
	for _, section := range []string{SectionGlobal, SectionSkills, SectionExperience, SectionEducation} {
		sb.WriteString(fmt.Sprintf("- %s: %.2f%%\n", section, report.SectionalScores[section]))
	}
	sb.WriteString("\nTop skill matches:")
	for _, match := range report.TopSkillMatches {
		sb.WriteString(fmt.Sprintf("\n- %s → %s (%.1f%%)", match.JobSkill, match.MatchedCandidateSkill, match.Similarity*100))
	}
	return sb.String()
}

func topMatches(matches []models.SkillMatch, limit int) []models.SkillMatch {
	sorted := make([]models.SkillMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func scoreLevel(scorePct float64) models.MatchLevel {
	switch {
	case scorePct >= 85:
		return models.LevelExcellent
	case scorePct >= 70:
		return models.LevelVeryGood
	case scorePct >= 55:
		return models.LevelGood
	case scorePct >= 40:
		return models.LevelModerate
	default:
		return models.LevelWeak
	}
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func dropBlank(values []string) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	return kept
}
