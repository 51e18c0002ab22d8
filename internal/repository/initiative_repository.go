package repository

import (
	"errors"
	"time"

	"github.com/greenpulse/sustainability-api/internal/database"
	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStaleState is returned when a compound transition finds its target no
// longer in the required status. The caller lost a race with another
// transition for the same scope.
var ErrStaleState = errors.New("initiative repository: initiative state changed")

// GormInitiativeRepository is a GORM implementation of InitiativeRepository
type GormInitiativeRepository struct {
	db *gorm.DB
}

// NewInitiativeRepository creates a new InitiativeRepository
func NewInitiativeRepository(db *gorm.DB) InitiativeRepository {
	return &GormInitiativeRepository{db: db}
}

// Create creates a new initiative
func (r *GormInitiativeRepository) Create(initiative *models.Initiative) error {
	return r.db.Create(initiative).Error
}

// FindByID finds an initiative by ID with optional preloading
func (r *GormInitiativeRepository) FindByID(id uint64, preload ...string) (*models.Initiative, error) {
	var initiative models.Initiative
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&initiative, id).Error; err != nil {
		return nil, err
	}

	return &initiative, nil
}

// List retrieves initiatives with filtering and pagination
func (r *GormInitiativeRepository) List(filter InitiativeFilter) ([]models.Initiative, int64, error) {
	var initiatives []models.Initiative

	query := r.db.Model(&models.Initiative{}).Where("initiatives.company_id = ?", filter.CompanyID)

	if filter.Status != nil {
		query = query.Where("initiatives.status = ?", *filter.Status)
	} else if !filter.IncludeArchived {
		query = query.Where("initiatives.status <> ?", models.InitiativeStatusArchived)
	}
	if filter.Month != nil {
		query = query.Where("initiatives.month = ?", *filter.Month)
	}
	if filter.Year != nil {
		query = query.Where("initiatives.year = ?", *filter.Year)
	}
	if filter.CreatorID != nil {
		query = query.Where("initiatives.creator_id = ?", *filter.CreatorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("initiatives.created_at ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Creator").Find(&initiatives).Error; err != nil {
		return nil, 0, err
	}

	return initiatives, total, nil
}

// Update updates an initiative
func (r *GormInitiativeRepository) Update(initiative *models.Initiative) error {
	return r.db.Save(initiative).Error
}

// Delete soft deletes an initiative; its votes and progress rows go with it
func (r *GormInitiativeRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("initiative_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}

		if err := tx.Where("initiative_id = ?", id).Delete(&models.Progress{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Initiative{}, id).Error
	})
}

// FindActiveForPeriod finds the active initiative for a company period
func (r *GormInitiativeRepository) FindActiveForPeriod(companyID uint64, month, year int) (*models.Initiative, error) {
	var initiative models.Initiative
	err := r.db.
		Where("company_id = ? AND month = ? AND year = ? AND status = ?",
			companyID, month, year, models.InitiativeStatusActive).
		First(&initiative).Error
	if err != nil {
		return nil, err
	}
	return &initiative, nil
}

// FindPendingForPeriod lists pending initiatives for a company period, oldest first
func (r *GormInitiativeRepository) FindPendingForPeriod(companyID uint64, month, year int) ([]models.Initiative, error) {
	var initiatives []models.Initiative
	err := r.db.
		Where("company_id = ? AND month = ? AND year = ? AND status = ?",
			companyID, month, year, models.InitiativeStatusPending).
		Order("created_at ASC, id ASC").
		Find(&initiatives).Error
	if err != nil {
		return nil, err
	}
	return initiatives, nil
}

// FindOwnedForPeriod lists a creator's pending or active initiatives for a company period
func (r *GormInitiativeRepository) FindOwnedForPeriod(companyID, creatorID uint64, month, year int) ([]models.Initiative, error) {
	var initiatives []models.Initiative
	err := r.db.
		Where("company_id = ? AND creator_id = ? AND month = ? AND year = ? AND status IN ?",
			companyID, creatorID, month, year,
			[]models.InitiativeStatus{models.InitiativeStatusPending, models.InitiativeStatusActive}).
		Find(&initiatives).Error
	if err != nil {
		return nil, err
	}
	return initiatives, nil
}

// FindVotingExpired lists pending initiatives whose voting window has closed
func (r *GormInitiativeRepository) FindVotingExpired(now time.Time) ([]models.Initiative, error) {
	var initiatives []models.Initiative
	err := r.db.
		Where("status = ? AND voting_end_date IS NOT NULL AND voting_end_date <= ?",
			models.InitiativeStatusPending, now).
		Order("company_id ASC, year ASC, month ASC, created_at ASC").
		Find(&initiatives).Error
	if err != nil {
		return nil, err
	}
	return initiatives, nil
}

// lockedStatus re-reads an initiative's row under a write lock so a
// concurrent transition for the same scope serializes behind this one.
func lockedStatus(tx *gorm.DB, id uint64) (*models.Initiative, error) {
	query := tx
	// sqlite does not speak FOR UPDATE; its transactions serialize writers
	// on their own.
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var current models.Initiative
	if err := query.First(&current, id).Error; err != nil {
		return nil, err
	}
	return &current, nil
}

// ActivateExclusive performs a manual activation in one transaction
func (r *GormInitiativeRepository) ActivateExclusive(target *models.Initiative, month, year int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		current, err := lockedStatus(tx, target.ID)
		if err != nil {
			return err
		}
		if current.Status != models.InitiativeStatusPending {
			return ErrStaleState
		}

		// Demote whatever is currently active in the company.
		if err := tx.Model(&models.Initiative{}).
			Where("company_id = ? AND status = ? AND id <> ?",
				target.CompanyID, models.InitiativeStatusActive, target.ID).
			Update("status", models.InitiativeStatusCompleted).Error; err != nil {
			return err
		}

		// Displace the pending competition of the target's original period.
		if err := tx.Model(&models.Initiative{}).
			Where("company_id = ? AND month = ? AND year = ? AND status = ? AND id <> ?",
				target.CompanyID, current.Month, current.Year,
				models.InitiativeStatusPending, target.ID).
			Update("status", models.InitiativeStatusArchived).Error; err != nil {
			return err
		}

		// Manual activation takes effect immediately, so the target is
		// re-stamped to the current period. It stays unlocked and reversible.
		updates := map[string]interface{}{
			"status":    models.InitiativeStatusActive,
			"month":     month,
			"year":      year,
			"is_locked": false,
		}
		if err := tx.Model(&models.Initiative{}).Where("id = ?", target.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		target.Status = models.InitiativeStatusActive
		target.Month = month
		target.Year = year
		target.IsLocked = false
		return nil
	})
}

// PromoteWinner performs an automatic activation in one transaction
func (r *GormInitiativeRepository) PromoteWinner(winner *models.Initiative, loserIDs []uint64, autoDeleteDate time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		current, err := lockedStatus(tx, winner.ID)
		if err != nil {
			return err
		}
		if current.Status != models.InitiativeStatusPending {
			return ErrStaleState
		}

		if len(loserIDs) > 0 {
			if err := tx.Model(&models.Initiative{}).
				Where("id IN ? AND status = ?", loserIDs, models.InitiativeStatusPending).
				Updates(map[string]interface{}{
					"status":           models.InitiativeStatusFailed,
					"auto_delete_date": autoDeleteDate,
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Initiative{}).
			Where("company_id = ? AND status = ? AND id <> ?",
				winner.CompanyID, models.InitiativeStatusActive, winner.ID).
			Update("status", models.InitiativeStatusCompleted).Error; err != nil {
			return err
		}

		// Competitive winners are locked: the admin deactivation path does
		// not apply to them.
		if err := tx.Model(&models.Initiative{}).Where("id = ?", winner.ID).
			Updates(map[string]interface{}{
				"status":    models.InitiativeStatusActive,
				"is_locked": true,
			}).Error; err != nil {
			return err
		}

		winner.Status = models.InitiativeStatusActive
		winner.IsLocked = true
		return nil
	})
}

// Deactivate completes an active unlocked initiative and opens the voting
// window for its pending siblings, all in one transaction
func (r *GormInitiativeRepository) Deactivate(target *models.Initiative, votingEndDate time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		current, err := lockedStatus(tx, target.ID)
		if err != nil {
			return err
		}
		if current.Status != models.InitiativeStatusActive || current.IsLocked {
			return ErrStaleState
		}

		if err := tx.Model(&models.Initiative{}).
			Where("company_id = ? AND month = ? AND year = ? AND status = ? AND id <> ?",
				target.CompanyID, current.Month, current.Year,
				models.InitiativeStatusPending, target.ID).
			Update("voting_end_date", votingEndDate).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Initiative{}).Where("id = ?", target.ID).
			Updates(map[string]interface{}{
				"status":          models.InitiativeStatusCompleted,
				"voting_end_date": votingEndDate,
			}).Error; err != nil {
			return err
		}

		target.Status = models.InitiativeStatusCompleted
		target.VotingEndDate = &votingEndDate
		return nil
	})
}

// DeleteExpiredFailed removes failed initiatives whose auto-delete date has
// passed. The rows are gone for good, not soft-deleted; retention ended when
// the auto-delete date ran out.
func (r *GormInitiativeRepository) DeleteExpiredFailed(now time.Time) (int64, error) {
	var deleted int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint64
		if err := tx.Model(&models.Initiative{}).
			Where("status = ? AND auto_delete_date IS NOT NULL AND auto_delete_date <= ?",
				models.InitiativeStatusFailed, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("initiative_id IN ?", ids).Delete(&models.Vote{}).Error; err != nil {
			return err
		}

		if err := tx.Where("initiative_id IN ?", ids).Delete(&models.Progress{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Delete(&models.Initiative{}, ids)
		if result.Error != nil {
			return result.Error
		}

		deleted = result.RowsAffected
		return nil
	})

	return deleted, err
}
