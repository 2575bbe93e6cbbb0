package models

// StructuredJob is the typed job posting record produced by the extraction
// service. Same provenance contract as StructuredCV: absent fields are empty
// strings or empty slices.
type StructuredJob struct {
	Title              string   `json:"title"`
	Company            string   `json:"company"`
	Location           string   `json:"location"`
	ContractType       string   `json:"contract_type"`
	Description        string   `json:"description,omitempty"`
	RequiredSkills     []string `json:"required_skills"`
	ExperienceRequired string   `json:"experience_required"`
	EducationRequired  string   `json:"education_required"`
	Responsibilities   []string `json:"responsibilities"`
}
