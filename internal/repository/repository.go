package repository

import (
	"time"

	"github.com/greenpulse/sustainability-api/internal/models"
)

// InitiativeFilter holds filtering options for listing initiatives
type InitiativeFilter struct {
	CompanyID uint64
	Status    *models.InitiativeStatus
	Month     *int
	Year      *int
	CreatorID *uint64
	// IncludeArchived includes archived records; they are excluded by default.
	IncludeArchived bool
	Page            int
	PageSize        int
}

// InitiativeRepository defines the interface for initiative data access.
// The compound transition methods apply every row update of a lifecycle
// transition in a single transaction, so a half-applied transition can never
// leave a company with two active initiatives.
type InitiativeRepository interface {
	// Create creates a new initiative
	Create(initiative *models.Initiative) error

	// FindByID finds an initiative by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Initiative, error)

	// List retrieves initiatives with filtering and pagination
	List(filter InitiativeFilter) ([]models.Initiative, int64, error)

	// Update updates an initiative
	Update(initiative *models.Initiative) error

	// Delete soft deletes an initiative along with its votes and progress
	Delete(id uint64) error

	// FindActiveForPeriod finds the active initiative for a company period
	FindActiveForPeriod(companyID uint64, month, year int) (*models.Initiative, error)

	// FindPendingForPeriod lists pending initiatives for a company period,
	// oldest first
	FindPendingForPeriod(companyID uint64, month, year int) ([]models.Initiative, error)

	// FindOwnedForPeriod lists a creator's pending or active initiatives for
	// a company period
	FindOwnedForPeriod(companyID, creatorID uint64, month, year int) ([]models.Initiative, error)

	// FindVotingExpired lists pending initiatives whose voting window has
	// closed
	FindVotingExpired(now time.Time) ([]models.Initiative, error)

	// ActivateExclusive performs a manual activation: demotes the company's
	// other active initiatives to completed, archives pending siblings of the
	// target's period, and promotes the target re-stamped to (month, year).
	ActivateExclusive(target *models.Initiative, month, year int) error

	// PromoteWinner performs an automatic activation: fails the losers with
	// the given auto-delete date, demotes other active initiatives, and
	// promotes the winner locked.
	PromoteWinner(winner *models.Initiative, loserIDs []uint64, autoDeleteDate time.Time) error

	// Deactivate completes an active unlocked initiative and stamps the
	// voting end date onto it and its pending siblings.
	Deactivate(target *models.Initiative, votingEndDate time.Time) error

	// DeleteExpiredFailed removes failed initiatives whose auto-delete date
	// has passed, returning how many were removed
	DeleteExpiredFailed(now time.Time) (int64, error)
}

// VoteRepository defines the interface for vote data access
type VoteRepository interface {
	// Cast inserts a vote, absorbing duplicate (user, initiative) casts
	Cast(vote *models.Vote) error

	// Find finds a user's vote on an initiative
	Find(userID, initiativeID uint64) (*models.Vote, error)

	// Delete removes a user's vote on an initiative
	Delete(userID, initiativeID uint64) error

	// CountByInitiative counts the votes on an initiative
	CountByInitiative(initiativeID uint64) (int64, error)

	// CountByInitiativeIDs counts votes per initiative
	CountByInitiativeIDs(initiativeIDs []uint64) (map[uint64]int64, error)

	// ListByInitiative lists the votes on an initiative with voters preloaded
	ListByInitiative(initiativeID uint64) ([]models.Vote, error)
}

// ProgressRepository defines the interface for progress data access
type ProgressRepository interface {
	// Upsert creates or updates the (user, initiative) progress row
	Upsert(progress *models.Progress) error

	// Find finds a user's progress on an initiative
	Find(userID, initiativeID uint64) (*models.Progress, error)

	// ListByInitiative lists all progress rows for an initiative
	ListByInitiative(initiativeID uint64) ([]models.Progress, error)
}

// BadgeRepository defines the interface for badge data access
type BadgeRepository interface {
	// Award inserts a badge if the user does not already hold it
	Award(badge *models.Badge) error

	// ListByUser lists a user's badges
	ListByUser(userID uint64) ([]models.Badge, error)
}

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	// Create creates a new company
	Create(company *models.Company) error

	// FindByID finds a company by ID
	FindByID(id uint64) (*models.Company, error)

	// FindByInviteCode finds a company by invite code
	FindByInviteCode(code string) (*models.Company, error)

	// Update updates a company
	Update(company *models.Company) error

	// Delete deletes a company and all related data
	Delete(id uint64) error

	// ListIDs lists every company ID, for scheduler sweeps
	ListIDs() ([]uint64, error)

	// AddMember adds a member to a company
	AddMember(member *models.CompanyMember) error

	// RemoveMember removes a member from a company
	RemoveMember(companyID, userID uint64) error

	// FindMember finds a specific company member
	FindMember(companyID, userID uint64) (*models.CompanyMember, error)

	// ListMembersByUserID lists all companies a user is a member of
	ListMembersByUserID(userID uint64) ([]models.CompanyMember, error)

	// ListMembers lists all members of a company
	ListMembers(companyID uint64) ([]models.CompanyMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithPersonalCompany creates a user, their personal company, and
	// the corresponding membership within a single transaction.
	CreateWithPersonalCompany(user *models.User, company *models.Company, member *models.CompanyMember) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
