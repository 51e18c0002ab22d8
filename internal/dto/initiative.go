package dto

import (
	"time"

	"github.com/greenpulse/sustainability-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// CompanyDTO represents a company in API responses
type CompanyDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code,omitempty"`
}

// InitiativeDTO represents an initiative in API responses
type InitiativeDTO struct {
	ID             uint64                  `json:"id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Month          int                     `json:"month"`
	Year           int                     `json:"year"`
	Status         models.InitiativeStatus `json:"status"`
	IsLocked       bool                    `json:"is_locked"`
	VotingEndDate  *time.Time              `json:"voting_end_date"`
	AutoDeleteDate *time.Time              `json:"auto_delete_date"`
	CreatorID      uint64                  `json:"creator_id"`
	CompanyID      uint64                  `json:"company_id"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	VoteCount      int64                   `json:"vote_count"`
	Creator        *UserDTO                `json:"creator,omitempty"`
	Company        *CompanyDTO             `json:"company,omitempty"`
}

// InitiativeListItemDTO represents an initiative in list responses (minimal data)
type InitiativeListItemDTO struct {
	ID            uint64                  `json:"id"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Month         int                     `json:"month"`
	Year          int                     `json:"year"`
	Status        models.InitiativeStatus `json:"status"`
	IsLocked      bool                    `json:"is_locked"`
	VotingEndDate *time.Time              `json:"voting_end_date"`
	CreatorID     uint64                  `json:"creator_id"`
	VoteCount     int64                   `json:"vote_count"`
	Creator       *UserDTO                `json:"creator,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

// InitiativeListResponse represents a paginated list of initiatives
type InitiativeListResponse struct {
	Initiatives []InitiativeListItemDTO `json:"initiatives"`
	Page        int                     `json:"page"`
	PageSize    int                     `json:"page_size"`
	TotalCount  int64                   `json:"total_count"`
	TotalPages  int                     `json:"total_pages"`
}

// VotingResultDTO represents one line of a voting tally
type VotingResultDTO struct {
	Initiative InitiativeListItemDTO `json:"initiative"`
	VoteCount  int64                 `json:"vote_count"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToCompanyDTO converts a Company model to CompanyDTO
func ToCompanyDTO(company models.Company, includeInviteCode bool) CompanyDTO {
	dto := CompanyDTO{
		ID:   company.ID,
		Name: company.Name,
	}
	if includeInviteCode {
		dto.InviteCode = company.InviteCode
	}
	return dto
}

// ToInitiativeDTO converts an Initiative model to InitiativeDTO
func ToInitiativeDTO(initiative models.Initiative, voteCount int64) InitiativeDTO {
	dto := InitiativeDTO{
		ID:             initiative.ID,
		Title:          initiative.Title,
		Description:    initiative.Description,
		Month:          initiative.Month,
		Year:           initiative.Year,
		Status:         initiative.Status,
		IsLocked:       initiative.IsLocked,
		VotingEndDate:  initiative.VotingEndDate,
		AutoDeleteDate: initiative.AutoDeleteDate,
		CreatorID:      initiative.CreatorID,
		CompanyID:      initiative.CompanyID,
		CreatedAt:      initiative.CreatedAt,
		UpdatedAt:      initiative.UpdatedAt,
		VoteCount:      voteCount,
	}

	// Include creator if preloaded
	if initiative.Creator.ID != 0 {
		creator := ToUserDTO(initiative.Creator)
		dto.Creator = &creator
	}

	// Include company if preloaded
	if initiative.Company.ID != 0 {
		company := ToCompanyDTO(initiative.Company, false)
		dto.Company = &company
	}

	return dto
}

// ToInitiativeListItemDTO converts an Initiative model to InitiativeListItemDTO
func ToInitiativeListItemDTO(initiative models.Initiative, voteCount int64) InitiativeListItemDTO {
	dto := InitiativeListItemDTO{
		ID:            initiative.ID,
		Title:         initiative.Title,
		Description:   initiative.Description,
		Month:         initiative.Month,
		Year:          initiative.Year,
		Status:        initiative.Status,
		IsLocked:      initiative.IsLocked,
		VotingEndDate: initiative.VotingEndDate,
		CreatorID:     initiative.CreatorID,
		VoteCount:     voteCount,
		CreatedAt:     initiative.CreatedAt,
	}

	// Include creator if preloaded
	if initiative.Creator.ID != 0 {
		creator := ToUserDTO(initiative.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToInitiativeListResponse converts a slice of initiatives to InitiativeListResponse
func ToInitiativeListResponse(initiatives []models.Initiative, voteCounts map[uint64]int64, page, pageSize int, totalCount int64) InitiativeListResponse {
	items := make([]InitiativeListItemDTO, len(initiatives))
	for i, initiative := range initiatives {
		items[i] = ToInitiativeListItemDTO(initiative, voteCounts[initiative.ID])
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return InitiativeListResponse{
		Initiatives: items,
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}
