package services

import (
	"strings"

	"careerlab/cv-match/internal/models"
)

// SectionSet maps a section name to a single concatenated text blob. It is
// derived, ephemeral, and recomputed per comparison.
type SectionSet map[string]string

const (
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionCertifications = "certifications"
	SectionGlobal         = "global"
)

// ExtractCVSections flattens a structured CV into comparable text sections.
// Missing fields contribute empty strings, never errors.
func ExtractCVSections(cv *models.StructuredCV) SectionSet {
	sections := SectionSet{}
	if cv == nil {
		return sections
	}

	sections[SectionSkills] = strings.Join(cv.Skills, " ")

	expTexts := make([]string, 0, len(cv.Experience))
	for _, exp := range cv.Experience {
		expTexts = append(expTexts, strings.TrimSpace(exp.Title+" "+exp.Description))
	}
	sections[SectionExperience] = strings.Join(expTexts, " ")

	eduTexts := make([]string, 0, len(cv.Education))
	for _, edu := range cv.Education {
		eduTexts = append(eduTexts, strings.TrimSpace(edu.Degree+" "+edu.Institution))
	}
	sections[SectionEducation] = strings.Join(eduTexts, " ")

	sections[SectionCertifications] = strings.Join(cv.Certifications, " ")

	sections[SectionGlobal] = joinNonEmpty(
		sections[SectionSkills],
		sections[SectionExperience],
		sections[SectionEducation],
		sections[SectionCertifications],
	)

	return sections
}

// ExtractJobSections flattens a structured job posting into comparable text
// sections. The global section additionally carries the title and free-text
// description.
func ExtractJobSections(job *models.StructuredJob) SectionSet {
	sections := SectionSet{}
	if job == nil {
		return sections
	}

	sections[SectionSkills] = strings.Join(job.RequiredSkills, " ")
	sections[SectionExperience] = job.ExperienceRequired
	sections[SectionEducation] = job.EducationRequired

	sections[SectionGlobal] = joinNonEmpty(
		job.Title,
		job.Description,
		sections[SectionSkills],
		sections[SectionExperience],
		sections[SectionEducation],
	)

	return sections
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
