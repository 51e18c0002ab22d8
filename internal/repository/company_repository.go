package repository

import (
	"github.com/greenpulse/sustainability-api/internal/models"
	"gorm.io/gorm"
)

// GormCompanyRepository is a GORM implementation of CompanyRepository
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Create creates a new company
func (r *GormCompanyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

// FindByID finds a company by ID
func (r *GormCompanyRepository) FindByID(id uint64) (*models.Company, error) {
	var company models.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// FindByInviteCode finds a company by invite code
func (r *GormCompanyRepository) FindByInviteCode(code string) (*models.Company, error) {
	var company models.Company
	if err := r.db.Where("invite_code = ?", code).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Update updates a company
func (r *GormCompanyRepository) Update(company *models.Company) error {
	return r.db.Save(company).Error
}

// Delete deletes a company and all related data in a transaction
func (r *GormCompanyRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var initiativeIDs []uint64
		if err := tx.Model(&models.Initiative{}).
			Where("company_id = ?", id).
			Pluck("id", &initiativeIDs).Error; err != nil {
			return err
		}

		if len(initiativeIDs) > 0 {
			if err := tx.Where("initiative_id IN ?", initiativeIDs).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("initiative_id IN ?", initiativeIDs).
				Delete(&models.Progress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("company_id = ?", id).
				Delete(&models.Initiative{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("company_id = ?", id).
			Delete(&models.CompanyMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Company{}, id).Error
	})
}

// ListIDs lists every company ID, for scheduler sweeps
func (r *GormCompanyRepository) ListIDs() ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.Company{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// AddMember adds a member to a company
func (r *GormCompanyRepository) AddMember(member *models.CompanyMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a company
func (r *GormCompanyRepository) RemoveMember(companyID, userID uint64) error {
	return r.db.Where("company_id = ? AND user_id = ?", companyID, userID).
		Delete(&models.CompanyMember{}).Error
}

// FindMember finds a specific company member
func (r *GormCompanyRepository) FindMember(companyID, userID uint64) (*models.CompanyMember, error) {
	var member models.CompanyMember
	if err := r.db.Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists all companies a user is a member of
func (r *GormCompanyRepository) ListMembersByUserID(userID uint64) ([]models.CompanyMember, error) {
	var memberships []models.CompanyMember
	if err := r.db.Preload("Company").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a company
func (r *GormCompanyRepository) ListMembers(companyID uint64) ([]models.CompanyMember, error) {
	var members []models.CompanyMember
	if err := r.db.Preload("User").
		Where("company_id = ?", companyID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
