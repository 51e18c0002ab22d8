package repository

import (
	"github.com/greenpulse/sustainability-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVoteRepository is a GORM implementation of VoteRepository
type GormVoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &GormVoteRepository{db: db}
}

// Cast inserts a vote. The unique (user_id, initiative_id) index plus
// ON CONFLICT DO NOTHING make concurrent duplicate casts collapse into a
// single row.
func (r *GormVoteRepository) Cast(vote *models.Vote) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "initiative_id"}},
			DoNothing: true,
		}).
		Create(vote).Error
}

// Find finds a user's vote on an initiative
func (r *GormVoteRepository) Find(userID, initiativeID uint64) (*models.Vote, error) {
	var vote models.Vote
	if err := r.db.Where("user_id = ? AND initiative_id = ?", userID, initiativeID).
		First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

// Delete removes a user's vote on an initiative
func (r *GormVoteRepository) Delete(userID, initiativeID uint64) error {
	return r.db.Where("user_id = ? AND initiative_id = ?", userID, initiativeID).
		Delete(&models.Vote{}).Error
}

// CountByInitiative counts the votes on an initiative
func (r *GormVoteRepository) CountByInitiative(initiativeID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Where("initiative_id = ?", initiativeID).
		Count(&count).Error
	return count, err
}

// CountByInitiativeIDs counts votes per initiative
func (r *GormVoteRepository) CountByInitiativeIDs(initiativeIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(initiativeIDs))
	if len(initiativeIDs) == 0 {
		return counts, nil
	}

	type row struct {
		InitiativeID uint64
		Total        int64
	}

	var rows []row
	err := r.db.Model(&models.Vote{}).
		Select("initiative_id, COUNT(*) AS total").
		Where("initiative_id IN ?", initiativeIDs).
		Group("initiative_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.InitiativeID] = r.Total
	}
	return counts, nil
}

// ListByInitiative lists the votes on an initiative with voters preloaded
func (r *GormVoteRepository) ListByInitiative(initiativeID uint64) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.Preload("User").
		Where("initiative_id = ?", initiativeID).
		Order("created_at ASC").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}
