package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careerlab/cv-match/internal/models"
)

type MatchRepository interface {
	Create(record *models.MatchRecord) error
	FindByID(id uuid.UUID) (*models.MatchRecord, error)
	FindRecent(limit int) ([]models.MatchRecord, error)
	Delete(id uuid.UUID) error
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

// Create implements MatchRepository.
func (r *matchRepository) Create(record *models.MatchRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create match record: %w", err)
	}

	return nil
}

// FindByID implements MatchRepository.
func (r *matchRepository) FindByID(id uuid.UUID) (*models.MatchRecord, error) {
	var record models.MatchRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("match record not found")
		}

		return nil, fmt.Errorf("failed to find match record: %w", err)
	}

	return &record, nil
}

// FindRecent implements MatchRepository.
func (r *matchRepository) FindRecent(limit int) ([]models.MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []models.MatchRecord
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list match records: %w", err)
	}

	return records, nil
}

// Delete implements MatchRepository.
func (r *matchRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.MatchRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete match record: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("match record not found")
	}

	return nil
}
