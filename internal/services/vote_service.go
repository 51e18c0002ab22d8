package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrVoteNotFound     = errors.New("vote not found")
	ErrNotCompanyMember = errors.New("user is not a member of the company")
)

// VoteService is the vote ledger: at most one vote per (user, initiative),
// voting only while the initiative is pending, company scope enforced.
type VoteService struct {
	voteRepo       repository.VoteRepository
	initiativeRepo repository.InitiativeRepository
	companyRepo    repository.CompanyRepository
}

// NewVoteService creates a new VoteService
func NewVoteService(
	voteRepo repository.VoteRepository,
	initiativeRepo repository.InitiativeRepository,
	companyRepo repository.CompanyRepository,
) *VoteService {
	return &VoteService{
		voteRepo:       voteRepo,
		initiativeRepo: initiativeRepo,
		companyRepo:    companyRepo,
	}
}

// Cast records a user's vote on a pending initiative. Casting twice is a
// no-op that returns the existing vote: the caller cannot tell a fresh cast
// from a repeat, and no second row is ever created.
func (s *VoteService) Cast(userID, initiativeID uint64) (*models.Vote, error) {
	initiative, err := s.findScoped(userID, initiativeID)
	if err != nil {
		return nil, err
	}

	if initiative.Status != models.InitiativeStatusPending {
		return nil, ErrInitiativeNotPending
	}

	vote := &models.Vote{
		UserID:       userID,
		InitiativeID: initiativeID,
	}
	if err := s.voteRepo.Cast(vote); err != nil {
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	// A concurrent duplicate cast may have been absorbed by the conflict
	// clause; the stored row is the authoritative one either way.
	stored, err := s.voteRepo.Find(userID, initiativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vote: %w", err)
	}

	return stored, nil
}

// Retract removes a user's vote while the initiative is still pending.
func (s *VoteService) Retract(userID, initiativeID uint64) error {
	initiative, err := s.findScoped(userID, initiativeID)
	if err != nil {
		return err
	}

	if initiative.Status != models.InitiativeStatusPending {
		return ErrInitiativeNotPending
	}

	if _, err := s.voteRepo.Find(userID, initiativeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoteNotFound
		}
		return fmt.Errorf("failed to find vote: %w", err)
	}

	if err := s.voteRepo.Delete(userID, initiativeID); err != nil {
		return fmt.Errorf("failed to retract vote: %w", err)
	}

	return nil
}

// Count returns the number of votes on an initiative.
func (s *VoteService) Count(initiativeID uint64) (int64, error) {
	count, err := s.voteRepo.CountByInitiative(initiativeID)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// CountByInitiatives returns vote counts keyed by initiative ID.
func (s *VoteService) CountByInitiatives(ids []uint64) (map[uint64]int64, error) {
	counts, err := s.voteRepo.CountByInitiativeIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	return counts, nil
}

// ListVoters returns the votes on an initiative with voters preloaded,
// scoped to the requesting user's company.
func (s *VoteService) ListVoters(userID, initiativeID uint64) ([]models.Vote, error) {
	if _, err := s.findScoped(userID, initiativeID); err != nil {
		return nil, err
	}

	votes, err := s.voteRepo.ListByInitiative(initiativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	return votes, nil
}

// VotingResult is one candidate's standing in a period's competition.
type VotingResult struct {
	Initiative models.Initiative `json:"initiative"`
	VoteCount  int64             `json:"vote_count"`
}

// Results returns a period's pending candidates with their vote counts,
// ordered the same way the selection engine ranks them.
func (s *VoteService) Results(companyID uint64, month, year int) ([]VotingResult, error) {
	candidates, err := s.initiativeRepo.FindPendingForPeriod(companyID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending initiatives: %w", err)
	}

	ids := make([]uint64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	counts, err := s.voteRepo.CountByInitiativeIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	results := make([]VotingResult, len(candidates))
	for i, c := range candidates {
		results[i] = VotingResult{Initiative: c, VoteCount: counts[c.ID]}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].VoteCount != results[j].VoteCount {
			return results[i].VoteCount > results[j].VoteCount
		}
		if !results[i].Initiative.CreatedAt.Equal(results[j].Initiative.CreatedAt) {
			return results[i].Initiative.CreatedAt.Before(results[j].Initiative.CreatedAt)
		}
		return results[i].Initiative.ID < results[j].Initiative.ID
	})

	return results, nil
}

// findScoped loads an initiative and verifies the user belongs to its company.
func (s *VoteService) findScoped(userID, initiativeID uint64) (*models.Initiative, error) {
	initiative, err := s.initiativeRepo.FindByID(initiativeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, fmt.Errorf("failed to find initiative: %w", err)
	}

	if _, err := s.companyRepo.FindMember(initiative.CompanyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyMismatch
		}
		return nil, fmt.Errorf("failed to verify company membership: %w", err)
	}

	return initiative, nil
}
