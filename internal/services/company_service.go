package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"github.com/greenpulse/sustainability-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCompanyNotFound            = errors.New("company not found")
	ErrInvalidCompanyName         = errors.New("company name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyCompanyMember       = errors.New("user is already a member of this company")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the company")
	ErrCompanyMemberNotFound      = errors.New("company member not found")
)

// CompanyService provides business logic for company operations.
type CompanyService struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
	}
}

// CreateCompanyInput represents parameters to create a new company.
type CreateCompanyInput struct {
	Name    string
	AdminID uint64
}

// CreateCompany creates a new company and makes the creator its admin.
func (s *CompanyService) CreateCompany(input CreateCompanyInput) (*models.Company, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidCompanyName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	company := &models.Company{
		Name:       input.Name,
		InviteCode: inviteCode,
	}

	if err := s.companyRepo.Create(company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	member := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    input.AdminID,
		Role:      models.RoleAdmin,
		JoinedAt:  time.Now(),
	}

	if err := s.companyRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add admin to company: %w", err)
	}

	return company, nil
}

// ListCompaniesForUser returns companies the user belongs to.
func (s *CompanyService) ListCompaniesForUser(userID uint64) ([]models.CompanyMember, error) {
	memberships, err := s.companyRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return memberships, nil
}

// GetCompanyWithMembers returns a company and all of its members.
func (s *CompanyService) GetCompanyWithMembers(companyID uint64) (*models.Company, []models.CompanyMember, error) {
	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCompanyNotFound
		}
		return nil, nil, fmt.Errorf("failed to find company: %w", err)
	}

	members, err := s.companyRepo.ListMembers(companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list company members: %w", err)
	}

	return company, members, nil
}

// UpdateCompanyName updates a company's name.
func (s *CompanyService) UpdateCompanyName(companyID uint64, name string) (*models.Company, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidCompanyName
	}

	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}

	company.Name = name
	if err := s.companyRepo.Update(company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	return company, nil
}

// DeleteCompany removes a company.
func (s *CompanyService) DeleteCompany(companyID uint64) error {
	if _, err := s.companyRepo.FindByID(companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("failed to find company: %w", err)
	}

	if err := s.companyRepo.Delete(companyID); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	return nil
}

// JoinCompanyByInvite adds a user to a company via invite code.
func (s *CompanyService) JoinCompanyByInvite(userID uint64, inviteCode string) (*models.Company, error) {
	company, err := s.companyRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find company by invite code: %w", err)
	}

	if _, err := s.companyRepo.FindMember(company.ID, userID); err == nil {
		return nil, ErrAlreadyCompanyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    userID,
		Role:      models.RoleMember,
		JoinedAt:  time.Now(),
	}

	if err := s.companyRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member to company: %w", err)
	}

	return company, nil
}

// RegenerateInviteCode generates a new invite code for the company.
func (s *CompanyService) RegenerateInviteCode(companyID uint64) (*models.Company, error) {
	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	company.InviteCode = code
	if err := s.companyRepo.Update(company); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return company, nil
}

// RemoveMember removes a member from the company.
func (s *CompanyService) RemoveMember(companyID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.companyRepo.FindMember(companyID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyMemberNotFound
		}
		return fmt.Errorf("failed to find company member: %w", err)
	}

	if err := s.companyRepo.RemoveMember(companyID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
