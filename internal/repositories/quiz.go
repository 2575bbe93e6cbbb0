package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careerlab/cv-match/internal/models"
)

type QuizRepository interface {
	Create(record *models.QuizRecord) error
	FindByID(id uuid.UUID) (*models.QuizRecord, error)
	UpdateResult(id uuid.UUID, resultJSON string) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

// Create implements QuizRepository.
func (r *quizRepository) Create(record *models.QuizRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create quiz record: %w", err)
	}

	return nil
}

// FindByID implements QuizRepository.
func (r *quizRepository) FindByID(id uuid.UUID) (*models.QuizRecord, error) {
	var record models.QuizRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("quiz record not found")
		}

		return nil, fmt.Errorf("failed to find quiz record: %w", err)
	}

	return &record, nil
}

// UpdateResult implements QuizRepository.
func (r *quizRepository) UpdateResult(id uuid.UUID, resultJSON string) error {
	result := r.db.Model(&models.QuizRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"result_json": resultJSON,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update quiz result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("quiz record not found")
	}

	return nil
}
