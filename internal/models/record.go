package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchRecord persists one CV/job comparison together with the structured
// inputs that produced it, so later quiz generation can reuse the skill gaps.
type MatchRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CVJSON        string    `gorm:"type:jsonb" json:"-"`
	JobJSON       string    `gorm:"type:jsonb" json:"-"`
	ReportJSON    string    `gorm:"type:jsonb" json:"-"`
	GapSkillsJSON string    `gorm:"type:jsonb" json:"-"`
	ModelUsed     string    `gorm:"type:text" json:"model_used"`
	OverallScore  float64   `gorm:"type:decimal(5,2)" json:"overall_score"`
	CreatedAt     time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (MatchRecord) TableName() string {
	return "match_records"
}

// QuizRecord persists a generated quiz and, once submitted, its result.
type QuizRecord struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MatchID    *uuid.UUID `gorm:"type:uuid" json:"match_id,omitempty"`
	Level      string     `gorm:"type:text" json:"level"`
	QuizJSON   string     `gorm:"type:jsonb" json:"-"`
	ResultJSON *string    `gorm:"type:jsonb" json:"-"`
	CreatedAt  time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (QuizRecord) TableName() string {
	return "quiz_records"
}
