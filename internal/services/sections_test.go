package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"careerlab/cv-match/internal/models"
)

func TestExtractCVSections(t *testing.T) {
	cv := &models.StructuredCV{
		Skills: []string{"Go", "PostgreSQL"},
		Experience: []models.ExperienceItem{
			{Title: "Backend Engineer", Company: "Acme", Description: "Built APIs"},
			{Title: "Intern", Company: "Initech"},
		},
		Education: []models.EducationItem{
			{Degree: "BSc", Institution: "MIT", Year: "2020"},
		},
		Certifications: []string{"CKA"},
	}

	sections := ExtractCVSections(cv)

	assert.Equal(t, "Go PostgreSQL", sections[SectionSkills])
	assert.Equal(t, "Backend Engineer Built APIs Intern", sections[SectionExperience])
	assert.Equal(t, "BSc MIT", sections[SectionEducation])
	assert.Equal(t, "CKA", sections[SectionCertifications])
	assert.Equal(t, "Go PostgreSQL Backend Engineer Built APIs Intern BSc MIT CKA", sections[SectionGlobal])
}

func TestExtractCVSectionsEmpty(t *testing.T) {
	sections := ExtractCVSections(&models.StructuredCV{})

	assert.Equal(t, "", sections[SectionSkills])
	assert.Equal(t, "", sections[SectionGlobal])

	assert.Empty(t, ExtractCVSections(nil))
}

func TestExtractJobSections(t *testing.T) {
	job := &models.StructuredJob{
		Title:              "Platform Engineer",
		Description:        "Own the deployment pipeline",
		RequiredSkills:     []string{"Kubernetes", "Terraform"},
		ExperienceRequired: "3 years",
		EducationRequired:  "Bachelor",
	}

	sections := ExtractJobSections(job)

	assert.Equal(t, "Kubernetes Terraform", sections[SectionSkills])
	assert.Equal(t, "3 years", sections[SectionExperience])
	assert.Equal(t, "Bachelor", sections[SectionEducation])
	assert.Equal(t, "Platform Engineer Own the deployment pipeline Kubernetes Terraform 3 years Bachelor", sections[SectionGlobal])
}

func TestExtractJobSectionsSkipsBlankParts(t *testing.T) {
	job := &models.StructuredJob{Title: "Engineer"}

	sections := ExtractJobSections(job)

	assert.Equal(t, "Engineer", sections[SectionGlobal])
	assert.Equal(t, "", sections[SectionExperience])
}
