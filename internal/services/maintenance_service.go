package services

import (
	"fmt"
	"log"
	"time"

	"github.com/greenpulse/sustainability-api/internal/period"
	"github.com/greenpulse/sustainability-api/internal/repository"
)

// MaintenanceReport counts the records each sweep touched. A second run with
// no intervening state change reports all zeros.
type MaintenanceReport struct {
	ExpiredActivations int   `json:"expired_activations"`
	MonthlyActivations int   `json:"monthly_activations"`
	DeletedInitiatives int64 `json:"deleted_initiatives"`
}

// MaintenanceService is the scheduled maintenance runner: expiry-driven
// activations, first-of-month auto activation, then cleanup of failed
// initiatives past their auto-delete date. It is stateless and safe to
// invoke repeatedly; it reuses the lifecycle transitions rather than
// duplicating them.
type MaintenanceService struct {
	initiativeRepo repository.InitiativeRepository
	companyRepo    repository.CompanyRepository
	lifecycle      *LifecycleService

	clock func() time.Time
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(
	initiativeRepo repository.InitiativeRepository,
	companyRepo repository.CompanyRepository,
	lifecycle *LifecycleService,
) *MaintenanceService {
	return &MaintenanceService{
		initiativeRepo: initiativeRepo,
		companyRepo:    companyRepo,
		lifecycle:      lifecycle,
		clock:          time.Now,
	}
}

type sweepGroup struct {
	companyID uint64
	period    period.Period
}

// Run executes the three sweeps in order and reports what they touched.
// A single group failing does not abort the others: it is logged and the
// sweep moves on.
func (s *MaintenanceService) Run() (*MaintenanceReport, error) {
	now := s.clock().UTC()
	report := &MaintenanceReport{}

	if err := s.expireVotingSweep(now, report); err != nil {
		return nil, err
	}

	if period.IsFirstOfMonth(now) {
		if err := s.monthlyActivationSweep(now, report); err != nil {
			return nil, err
		}
	}

	deleted, err := s.initiativeRepo.DeleteExpiredFailed(now)
	if err != nil {
		return nil, fmt.Errorf("cleanup sweep failed: %w", err)
	}
	report.DeletedInitiatives = deleted

	return report, nil
}

// expireVotingSweep resolves every pending group whose voting window has
// closed, one auto activation per (company, month, year).
func (s *MaintenanceService) expireVotingSweep(now time.Time, report *MaintenanceReport) error {
	expired, err := s.initiativeRepo.FindVotingExpired(now)
	if err != nil {
		return fmt.Errorf("expiry sweep failed: %w", err)
	}

	seen := make(map[sweepGroup]bool)
	var groups []sweepGroup
	for _, initiative := range expired {
		g := sweepGroup{
			companyID: initiative.CompanyID,
			period:    period.Period{Month: initiative.Month, Year: initiative.Year},
		}
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}

	for _, g := range groups {
		winner, err := s.lifecycle.AutoActivate(g.companyID, g.period)
		if err != nil {
			log.Printf("expiry sweep: company %d period %d/%d: %v",
				g.companyID, g.period.Month, g.period.Year, err)
			continue
		}
		if winner != nil {
			report.ExpiredActivations++
		}
	}

	return nil
}

// monthlyActivationSweep auto-activates the current period for every company.
// Only called on the first day of a month.
func (s *MaintenanceService) monthlyActivationSweep(now time.Time, report *MaintenanceReport) error {
	companyIDs, err := s.companyRepo.ListIDs()
	if err != nil {
		return fmt.Errorf("monthly sweep failed: %w", err)
	}

	current := period.Resolve(now).Current
	for _, companyID := range companyIDs {
		winner, err := s.lifecycle.AutoActivate(companyID, current)
		if err != nil {
			log.Printf("monthly sweep: company %d: %v", companyID, err)
			continue
		}
		if winner != nil {
			report.MonthlyActivations++
		}
	}

	return nil
}
