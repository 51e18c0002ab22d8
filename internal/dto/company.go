package dto

import (
	"time"

	"github.com/greenpulse/sustainability-api/internal/models"
)

// CompanyWithRoleDTO represents a company with the user's role
type CompanyWithRoleDTO struct {
	CompanyDTO
	Role models.CompanyRole `json:"role"`
}

// CompanyMemberDTO represents a member in a company
type CompanyMemberDTO struct {
	User     UserDTO            `json:"user"`
	Role     models.CompanyRole `json:"role"`
	JoinedAt time.Time          `json:"joined_at"`
}

// CompanyDetailDTO represents detailed company information
type CompanyDetailDTO struct {
	CompanyDTO
	Members  []CompanyMemberDTO `json:"members"`
	YourRole models.CompanyRole `json:"your_role"`
}

// BadgeDTO represents an earned badge in API responses
type BadgeDTO struct {
	ID           uint64           `json:"id"`
	Kind         models.BadgeKind `json:"kind"`
	InitiativeID uint64           `json:"initiative_id"`
	EarnedAt     time.Time        `json:"earned_at"`
}

// ProgressDTO represents a user's progress on an initiative
type ProgressDTO struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	InitiativeID uint64    `json:"initiative_id"`
	Percentage   int       `json:"percentage"`
	Completed    bool      `json:"completed"`
	Detail       string    `json:"detail"`
	UpdatedAt    time.Time `json:"updated_at"`
	User         *UserDTO  `json:"user,omitempty"`
}

// ToCompanyWithRoleDTO converts a company member to DTO with role
func ToCompanyWithRoleDTO(member models.CompanyMember) CompanyWithRoleDTO {
	return CompanyWithRoleDTO{
		CompanyDTO: ToCompanyDTO(member.Company, false),
		Role:       member.Role,
	}
}

// ToCompanyMemberDTO converts a member to DTO
func ToCompanyMemberDTO(member models.CompanyMember) CompanyMemberDTO {
	return CompanyMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToCompanyDetailDTO converts company with members to detailed DTO
func ToCompanyDetailDTO(company models.Company, members []models.CompanyMember, yourRole models.CompanyRole) CompanyDetailDTO {
	memberDTOs := make([]CompanyMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToCompanyMemberDTO(member)
	}

	return CompanyDetailDTO{
		CompanyDTO: ToCompanyDTO(company, true),
		Members:    memberDTOs,
		YourRole:   yourRole,
	}
}

// ToBadgeDTO converts a Badge model to BadgeDTO
func ToBadgeDTO(badge models.Badge) BadgeDTO {
	return BadgeDTO{
		ID:           badge.ID,
		Kind:         badge.Kind,
		InitiativeID: badge.InitiativeID,
		EarnedAt:     badge.CreatedAt,
	}
}

// ToProgressDTO converts a Progress model to ProgressDTO
func ToProgressDTO(progress models.Progress) ProgressDTO {
	dto := ProgressDTO{
		ID:           progress.ID,
		UserID:       progress.UserID,
		InitiativeID: progress.InitiativeID,
		Percentage:   progress.Percentage,
		Completed:    progress.Completed,
		Detail:       progress.Detail,
		UpdatedAt:    progress.UpdatedAt,
	}

	if progress.User.ID != 0 {
		user := ToUserDTO(progress.User)
		dto.User = &user
	}

	return dto
}
