package models

import (
	"time"

	"gorm.io/gorm"
)

// InitiativeStatus is the lifecycle state of an initiative. Transitions are
// performed exclusively by the lifecycle service; status is never assigned
// free-form outside of it.
type InitiativeStatus string

const (
	// InitiativeStatusPending means awaiting selection; open to voting.
	InitiativeStatusPending InitiativeStatus = "pending"
	// InitiativeStatusActive is the company's current initiative. At most one
	// per company at any time.
	InitiativeStatusActive InitiativeStatus = "active"
	// InitiativeStatusCompleted is an active initiative that was deactivated
	// or superseded.
	InitiativeStatusCompleted InitiativeStatus = "completed"
	// InitiativeStatusFailed is a losing candidate; carries an auto-delete date.
	InitiativeStatusFailed InitiativeStatus = "failed"
	// InitiativeStatusArchived is a pending initiative displaced outside of
	// the activation flow.
	InitiativeStatusArchived InitiativeStatus = "archived"
)

type Initiative struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	Title       string           `gorm:"not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Month       int              `gorm:"not null" json:"month"`
	Year        int              `gorm:"not null" json:"year"`
	Status      InitiativeStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	// IsLocked is true only for auto-activated winners; locked initiatives
	// cannot be manually deactivated.
	IsLocked       bool           `gorm:"not null;default:false" json:"is_locked"`
	VotingEndDate  *time.Time     `json:"voting_end_date"`
	AutoDeleteDate *time.Time     `json:"auto_delete_date"`
	CreatorID      uint64         `gorm:"not null" json:"creator_id"`
	CompanyID      uint64         `gorm:"not null" json:"company_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator  User       `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Company  Company    `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Votes    []Vote     `gorm:"foreignKey:InitiativeID" json:"votes,omitempty"`
	Progress []Progress `gorm:"foreignKey:InitiativeID" json:"progress,omitempty"`
}
