package models

// StructuredCV is the typed candidate record produced by the extraction
// service. All slices are non-nil after extraction; absent fields are empty,
// never missing.
type StructuredCV struct {
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Skills         []string         `json:"skills"`
	Education      []EducationItem  `json:"education"`
	Experience     []ExperienceItem `json:"experience"`
	Certifications []string         `json:"certifications"`
	Languages      []string         `json:"languages"`
}

type EducationItem struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// ExperienceItem entries are assumed most-recent-first.
type ExperienceItem struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}
