package services

import (
	"errors"
	"fmt"

	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")
	ErrProgressNotFound  = errors.New("progress not found")
)

// ProgressService tracks per-user progress against the active initiative.
type ProgressService struct {
	progressRepo   repository.ProgressRepository
	initiativeRepo repository.InitiativeRepository
	companyRepo    repository.CompanyRepository
	badgeService   *BadgeService
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	progressRepo repository.ProgressRepository,
	initiativeRepo repository.InitiativeRepository,
	companyRepo repository.CompanyRepository,
	badgeService *BadgeService,
) *ProgressService {
	return &ProgressService{
		progressRepo:   progressRepo,
		initiativeRepo: initiativeRepo,
		companyRepo:    companyRepo,
		badgeService:   badgeService,
	}
}

// UpsertInput represents input for recording progress
type UpsertInput struct {
	UserID       uint64
	InitiativeID uint64
	Percentage   int
	Completed    bool
	Detail       string
}

// Upsert records a user's progress on an active initiative, one row per
// (user, initiative). Reaching 100% completed awards the completion badge;
// the award is idempotent, so re-submitting full progress changes nothing.
func (s *ProgressService) Upsert(input UpsertInput) (*models.Progress, error) {
	if input.Percentage < 0 || input.Percentage > 100 {
		return nil, ErrInvalidPercentage
	}

	initiative, err := s.initiativeRepo.FindByID(input.InitiativeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, fmt.Errorf("failed to find initiative: %w", err)
	}

	if _, err := s.companyRepo.FindMember(initiative.CompanyID, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyMismatch
		}
		return nil, fmt.Errorf("failed to verify company membership: %w", err)
	}

	if initiative.Status != models.InitiativeStatusActive {
		return nil, ErrInitiativeNotActive
	}

	progress := &models.Progress{
		UserID:       input.UserID,
		InitiativeID: input.InitiativeID,
		Percentage:   input.Percentage,
		Completed:    input.Completed,
		Detail:       input.Detail,
	}

	if err := s.progressRepo.Upsert(progress); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	if input.Percentage == 100 && input.Completed {
		if err := s.badgeService.AwardInitiativeCompletionBadge(input.UserID, input.InitiativeID); err != nil {
			return nil, fmt.Errorf("failed to award completion badge: %w", err)
		}
	}

	stored, err := s.progressRepo.Find(input.UserID, input.InitiativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	return stored, nil
}

// Get returns a user's progress on an initiative.
func (s *ProgressService) Get(userID, initiativeID uint64) (*models.Progress, error) {
	progress, err := s.progressRepo.Find(userID, initiativeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to find progress: %w", err)
	}
	return progress, nil
}

// ListByInitiative returns everyone's progress on an initiative, for company
// dashboards.
func (s *ProgressService) ListByInitiative(initiativeID uint64) ([]models.Progress, error) {
	rows, err := s.progressRepo.ListByInitiative(initiativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return rows, nil
}
