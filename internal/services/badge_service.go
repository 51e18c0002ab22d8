package services

import (
	"fmt"

	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/repository"
)

// BadgeService awards badges. Awards are idempotent: repeating one never
// creates a duplicate row.
type BadgeService struct {
	badgeRepo repository.BadgeRepository
}

// NewBadgeService creates a new BadgeService
func NewBadgeService(badgeRepo repository.BadgeRepository) *BadgeService {
	return &BadgeService{badgeRepo: badgeRepo}
}

// AwardInitiativeCompletionBadge marks a user as having completed an
// initiative.
func (s *BadgeService) AwardInitiativeCompletionBadge(userID, initiativeID uint64) error {
	badge := &models.Badge{
		UserID:       userID,
		Kind:         models.BadgeInitiativeCompletion,
		InitiativeID: initiativeID,
	}

	if err := s.badgeRepo.Award(badge); err != nil {
		return fmt.Errorf("failed to award badge: %w", err)
	}

	return nil
}

// ListBadges returns a user's badges.
func (s *BadgeService) ListBadges(userID uint64) ([]models.Badge, error) {
	badges, err := s.badgeRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}
