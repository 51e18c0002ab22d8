package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/period"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidMonth         = errors.New("month must be between 1 and 12")
	ErrAlreadySubmitted     = errors.New("an initiative has already been submitted for this period")
	ErrWrongPeriod          = errors.New("initiative period does not match the submission window")
	ErrSubmissionClosed     = errors.New("submissions are closed until the last week of the month")
	ErrNotInitiativeCreator = errors.New("only the creator or an admin can modify this initiative")
)

// InitiativeService handles submission and plain CRUD over initiatives.
// Status never changes here; lifecycle transitions live in LifecycleService.
type InitiativeService struct {
	initiativeRepo repository.InitiativeRepository
	companyRepo    repository.CompanyRepository

	clock func() time.Time
}

// NewInitiativeService creates a new InitiativeService
func NewInitiativeService(initiativeRepo repository.InitiativeRepository, companyRepo repository.CompanyRepository) *InitiativeService {
	return &InitiativeService{
		initiativeRepo: initiativeRepo,
		companyRepo:    companyRepo,
		clock:          time.Now,
	}
}

// SubmitInput represents input for submitting an initiative
type SubmitInput struct {
	Title       string
	Description string
	Month       int
	Year        int
	CompanyID   uint64
	CreatorID   uint64
}

// Submit validates the submission window and creates a pending initiative.
// Regular users may only submit during the last week of the month, for the
// next period; admins may submit for the current or next period at any time.
// A creator gets one pending or active initiative per period.
func (s *InitiativeService) Submit(input SubmitInput) (*models.Initiative, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	member, err := s.companyRepo.FindMember(input.CompanyID, input.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCompanyMember
		}
		return nil, fmt.Errorf("failed to verify company membership: %w", err)
	}

	targets, err := s.submissionTargets(input.CompanyID, member.IsAdmin())
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, ErrSubmissionClosed
	}

	target := period.Period{Month: input.Month, Year: input.Year}
	if !period.Contains(targets, target) {
		return nil, ErrWrongPeriod
	}

	owned, err := s.initiativeRepo.FindOwnedForPeriod(input.CompanyID, input.CreatorID, target.Month, target.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing submissions: %w", err)
	}
	if len(owned) > 0 {
		return nil, ErrAlreadySubmitted
	}

	initiative := &models.Initiative{
		Title:       input.Title,
		Description: input.Description,
		Month:       target.Month,
		Year:        target.Year,
		Status:      models.InitiativeStatusPending,
		CompanyID:   input.CompanyID,
		CreatorID:   input.CreatorID,
	}

	if err := s.initiativeRepo.Create(initiative); err != nil {
		return nil, fmt.Errorf("failed to create initiative: %w", err)
	}

	return initiative, nil
}

// SuggestWindow describes whether and for which periods a user may submit.
type SuggestWindow struct {
	CanSuggest         bool            `json:"can_suggest"`
	Periods            []period.Period `json:"periods"`
	DaysUntilNextMonth int             `json:"days_until_next_month"`
}

// CanSuggest resolves the submission window for a user without creating
// anything; it powers the can-suggest endpoint.
func (s *InitiativeService) CanSuggest(companyID, userID uint64) (*SuggestWindow, error) {
	member, err := s.companyRepo.FindMember(companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCompanyMember
		}
		return nil, fmt.Errorf("failed to verify company membership: %w", err)
	}

	targets, err := s.submissionTargets(companyID, member.IsAdmin())
	if err != nil {
		return nil, err
	}

	return &SuggestWindow{
		CanSuggest:         len(targets) > 0,
		Periods:            targets,
		DaysUntilNextMonth: period.DaysUntilNextMonth(s.clock()),
	}, nil
}

// ListInput represents filters for listing initiatives
type ListInput struct {
	CompanyID       uint64
	Status          *models.InitiativeStatus
	Month           *int
	Year            *int
	IncludeArchived bool
	Page            int
	PageSize        int
}

// List returns a company's initiatives; archived ones only on request.
func (s *InitiativeService) List(input ListInput) ([]models.Initiative, int64, error) {
	initiatives, total, err := s.initiativeRepo.List(repository.InitiativeFilter{
		CompanyID:       input.CompanyID,
		Status:          input.Status,
		Month:           input.Month,
		Year:            input.Year,
		IncludeArchived: input.IncludeArchived,
		Page:            input.Page,
		PageSize:        input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list initiatives: %w", err)
	}
	return initiatives, total, nil
}

// Get returns an initiative with its creator loaded.
func (s *InitiativeService) Get(initiativeID uint64) (*models.Initiative, error) {
	initiative, err := s.initiativeRepo.FindByID(initiativeID, "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, fmt.Errorf("failed to find initiative: %w", err)
	}
	return initiative, nil
}

// UpdateInput represents input for updating an initiative
type UpdateInput struct {
	Title       *string
	Description *string
	Month       *int
	Year        *int
}

// Update edits an initiative's content. Only the creator or a company admin
// may edit, and status is never touched here.
func (s *InitiativeService) Update(initiativeID, actorID uint64, input UpdateInput) (*models.Initiative, error) {
	initiative, err := s.findEditable(initiativeID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		initiative.Title = *input.Title
	}
	if input.Description != nil {
		initiative.Description = *input.Description
	}
	if input.Month != nil {
		if *input.Month < 1 || *input.Month > 12 {
			return nil, ErrInvalidMonth
		}
		initiative.Month = *input.Month
	}
	if input.Year != nil {
		initiative.Year = *input.Year
	}

	if err := s.initiativeRepo.Update(initiative); err != nil {
		return nil, fmt.Errorf("failed to update initiative: %w", err)
	}

	return initiative, nil
}

// Delete removes an initiative along with its votes and progress.
func (s *InitiativeService) Delete(initiativeID, actorID uint64) error {
	if _, err := s.findEditable(initiativeID, actorID); err != nil {
		return err
	}

	if err := s.initiativeRepo.Delete(initiativeID); err != nil {
		return fmt.Errorf("failed to delete initiative: %w", err)
	}

	return nil
}

// submissionTargets resolves the periods open to a creator right now.
func (s *InitiativeService) submissionTargets(companyID uint64, isAdmin bool) ([]period.Period, error) {
	now := s.clock()
	current := period.Resolve(now).Current

	hasActive := true
	if _, err := s.initiativeRepo.FindActiveForPeriod(companyID, current.Month, current.Year); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check active initiative: %w", err)
		}
		hasActive = false
	}

	return period.SubmissionTarget(now, isAdmin, hasActive), nil
}

// findEditable loads an initiative and checks the actor may modify it.
func (s *InitiativeService) findEditable(initiativeID, actorID uint64) (*models.Initiative, error) {
	initiative, err := s.initiativeRepo.FindByID(initiativeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, fmt.Errorf("failed to find initiative: %w", err)
	}

	if initiative.CreatorID == actorID {
		return initiative, nil
	}

	member, err := s.companyRepo.FindMember(initiative.CompanyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInitiativeCreator
		}
		return nil, fmt.Errorf("failed to verify company membership: %w", err)
	}
	if !member.IsAdmin() {
		return nil, ErrNotInitiativeCreator
	}

	return initiative, nil
}
