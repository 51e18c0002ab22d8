package repository

import (
	"github.com/greenpulse/sustainability-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBadgeRepository is a GORM implementation of BadgeRepository
type GormBadgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository creates a new BadgeRepository
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &GormBadgeRepository{db: db}
}

// Award inserts a badge if the user does not already hold it
func (r *GormBadgeRepository) Award(badge *models.Badge) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "kind"}, {Name: "initiative_id"},
			},
			DoNothing: true,
		}).
		Create(badge).Error
}

// ListByUser lists a user's badges
func (r *GormBadgeRepository) ListByUser(userID uint64) ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}
