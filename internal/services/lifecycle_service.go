package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/greenpulse/sustainability-api/internal/constants"
	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/period"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInitiativeNotFound   = errors.New("initiative not found")
	ErrCompanyMismatch      = errors.New("initiative belongs to a different company")
	ErrInitiativeNotPending = errors.New("initiative is not pending")
	ErrInitiativeNotActive  = errors.New("initiative is not active")
	ErrInitiativeLocked     = errors.New("initiative was activated by vote and cannot be deactivated")
)

// LifecycleService is the initiative state machine. Every status change goes
// through one of its named transitions; nothing else mutates status.
type LifecycleService struct {
	initiativeRepo repository.InitiativeRepository
	voteRepo       repository.VoteRepository

	// clock is replaceable in tests.
	clock func() time.Time
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(initiativeRepo repository.InitiativeRepository, voteRepo repository.VoteRepository) *LifecycleService {
	return &LifecycleService{
		initiativeRepo: initiativeRepo,
		voteRepo:       voteRepo,
		clock:          time.Now,
	}
}

// ManualActivate promotes a pending initiative by admin choice. The company's
// current active initiative is completed, pending competitors of the target's
// period are archived, and the target goes active re-stamped to the current
// period. The manual path leaves the initiative unlocked, so it stays
// reversible through Deactivate.
func (s *LifecycleService) ManualActivate(initiativeID, actorCompanyID uint64) (*models.Initiative, error) {
	initiative, err := s.initiativeRepo.FindByID(initiativeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, fmt.Errorf("failed to find initiative: %w", err)
	}

	if initiative.CompanyID != actorCompanyID {
		return nil, ErrCompanyMismatch
	}
	if initiative.Status != models.InitiativeStatusPending {
		return nil, ErrInitiativeNotPending
	}

	current := period.Resolve(s.clock()).Current
	if err := s.initiativeRepo.ActivateExclusive(initiative, current.Month, current.Year); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrInitiativeNotPending
		}
		return nil, fmt.Errorf("failed to activate initiative: %w", err)
	}

	return initiative, nil
}

// AutoActivate resolves the pending competition for a company period: the
// candidate with the most votes wins, earliest submission breaking ties.
// Losers are failed and scheduled for deletion on the 15th of the period;
// the winner goes active and locked. A period with no pending candidates is
// a no-op and returns nil.
func (s *LifecycleService) AutoActivate(companyID uint64, p period.Period) (*models.Initiative, error) {
	candidates, err := s.initiativeRepo.FindPendingForPeriod(companyID, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending initiatives: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]uint64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	counts, err := s.voteRepo.CountByInitiativeIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	winner := SelectWinner(candidates, counts)

	loserIDs := make([]uint64, 0, len(candidates)-1)
	for _, c := range candidates {
		if c.ID != winner.ID {
			loserIDs = append(loserIDs, c.ID)
		}
	}

	if err := s.initiativeRepo.PromoteWinner(winner, loserIDs, period.MidMonth(p)); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrInitiativeNotPending
		}
		return nil, fmt.Errorf("failed to promote winner: %w", err)
	}

	return winner, nil
}

// Deactivate completes an active, unlocked initiative and reopens the
// competition: every pending sibling of its period gets a voting end date
// three days out, after which the expiry sweep resolves the period
// automatically.
func (s *LifecycleService) Deactivate(initiativeID, actorCompanyID uint64) (*models.Initiative, error) {
	initiative, err := s.initiativeRepo.FindByID(initiativeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, fmt.Errorf("failed to find initiative: %w", err)
	}

	if initiative.CompanyID != actorCompanyID {
		return nil, ErrCompanyMismatch
	}
	if initiative.Status != models.InitiativeStatusActive {
		return nil, ErrInitiativeNotActive
	}
	if initiative.IsLocked {
		return nil, ErrInitiativeLocked
	}

	votingEnd := s.clock().UTC().Add(constants.VotingWindowDays * 24 * time.Hour)
	if err := s.initiativeRepo.Deactivate(initiative, votingEnd); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrInitiativeNotActive
		}
		return nil, fmt.Errorf("failed to deactivate initiative: %w", err)
	}

	return initiative, nil
}
