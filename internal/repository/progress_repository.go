package repository

import (
	"github.com/greenpulse/sustainability-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProgressRepository is a GORM implementation of ProgressRepository
type GormProgressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &GormProgressRepository{db: db}
}

// Upsert creates or updates the (user, initiative) progress row
func (r *GormProgressRepository) Upsert(progress *models.Progress) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "initiative_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"percentage", "completed", "detail", "updated_at",
			}),
		}).
		Create(progress).Error
}

// Find finds a user's progress on an initiative
func (r *GormProgressRepository) Find(userID, initiativeID uint64) (*models.Progress, error) {
	var progress models.Progress
	if err := r.db.Where("user_id = ? AND initiative_id = ?", userID, initiativeID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListByInitiative lists all progress rows for an initiative
func (r *GormProgressRepository) ListByInitiative(initiativeID uint64) ([]models.Progress, error) {
	var rows []models.Progress
	err := r.db.Preload("User").
		Where("initiative_id = ?", initiativeID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
