package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"careerlab/cv-match/internal/models"
)

const maxCVSkills = 15

// ExtractionService turns raw CV or job-posting text into the typed records
// the similarity engine consumes. Every record comes back with all fixed
// top-level fields present; absent values become empty strings or empty
// collections, never missing keys.
type ExtractionService interface {
	ParseCV(ctx context.Context, cvText string) (*models.StructuredCV, error)
	ParseJob(ctx context.Context, jobText string) (*models.StructuredJob, error)
}

type extractionService struct {
	gemini     GeminiService
	maxRetries int
}

func NewExtractionService(gemini GeminiService, maxRetries int) ExtractionService {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &extractionService{gemini: gemini, maxRetries: maxRetries}
}

// ParseCV implements ExtractionService.
func (e *extractionService) ParseCV(ctx context.Context, cvText string) (*models.StructuredCV, error) {
	if e.gemini == nil {
		return nil, ErrModelUnavailable
	}

	prompt := buildCVExtractionPrompt(cvText)

	response, err := e.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to extract CV: %w", err)
	}

	raw, err := ExtractJSONObject(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CV extraction response: %w", err)
	}

	var cv models.StructuredCV
	if err := json.Unmarshal([]byte(raw), &cv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal CV extraction response: %w", err)
	}

	normalizeCV(&cv)
	return &cv, nil
}

// ParseJob implements ExtractionService.
func (e *extractionService) ParseJob(ctx context.Context, jobText string) (*models.StructuredJob, error) {
	if e.gemini == nil {
		return nil, ErrModelUnavailable
	}

	prompt := buildJobExtractionPrompt(jobText)

	response, err := e.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job: %w", err)
	}

	raw, err := ExtractJSONObject(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job extraction response: %w", err)
	}

	var job models.StructuredJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job extraction response: %w", err)
	}

	normalizeJob(&job)
	return &job, nil
}

func buildCVExtractionPrompt(cvText string) string {
	return fmt.Sprintf(`Extract the information from the given text extracted from a candidate CV and return a JSON object:
{"name":"","email":"","phone":"","skills":[],"education":[{"degree":"","institution":"","year":""}],"experience":[{"title":"","company":"","period":"","description":""}],"certifications":[],"languages":[]}

Extraction rules:
- name: full name of the candidate
- email: valid email address
- phone: phone number
- skills: max %d, no duplicates
- education: degree, institution, year
- experience: job title, company, period worked, description (most recent first)
- certifications: list
- languages: list

Mandatory requirements:
- Every record must contain all 8 top-level fields
- If a field is missing, return an empty string or empty list
- Output must be valid JSON ONLY, no surrounding text

Below is the given text:
%s`, maxCVSkills, cvText)
}

func buildJobExtractionPrompt(jobText string) string {
	return fmt.Sprintf(`Analyze the following job posting and extract the requested information as JSON.

Job posting:
%s

Return ONLY a valid JSON object with this exact structure:
{
  "title": "job title or empty string",
  "company": "company name or empty string",
  "location": "location or empty string",
  "contract_type": "one of CDI, CDD, INTERNSHIP, FREELANCE, or empty string",
  "description": "one-paragraph summary of the role",
  "required_skills": ["technical", "skills", "required"],
  "experience_required": "years of experience required or empty string",
  "education_required": "education level required or empty string",
  "responsibilities": ["main", "responsibilities"]
}

Important rules:
- Return ONLY the JSON, no extra text
- Use empty strings or empty lists for values not found
- For skills, include technologies, programming languages, and tools
- Normalize the contract type to upper case`, jobText)
}

func normalizeCV(cv *models.StructuredCV) {
	cv.Name = strings.TrimSpace(cv.Name)
	cv.Email = strings.TrimSpace(cv.Email)
	cv.Phone = strings.TrimSpace(cv.Phone)
	cv.Skills = dedupeSkills(cv.Skills, maxCVSkills)

	if cv.Education == nil {
		cv.Education = []models.EducationItem{}
	}
	if cv.Experience == nil {
		cv.Experience = []models.ExperienceItem{}
	}
	if cv.Certifications == nil {
		cv.Certifications = []string{}
	}
	if cv.Languages == nil {
		cv.Languages = []string{}
	}
}

func normalizeJob(job *models.StructuredJob) {
	job.Title = strings.TrimSpace(job.Title)
	job.Company = strings.TrimSpace(job.Company)
	job.Location = strings.TrimSpace(job.Location)
	job.ContractType = strings.ToUpper(strings.TrimSpace(job.ContractType))

	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	} else {
		job.RequiredSkills = dropBlank(job.RequiredSkills)
	}
	if job.Responsibilities == nil {
		job.Responsibilities = []string{}
	}
}

// dedupeSkills keeps the first occurrence of each skill (case-insensitive)
// and caps the list.
func dedupeSkills(skills []string, limit int) []string {
	seen := make(map[string]struct{}, len(skills))
	kept := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, skill)
		if len(kept) == limit {
			break
		}
	}
	return kept
}
