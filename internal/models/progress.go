package models

import "time"

// Progress tracks one user's progress against an active initiative.
// One row per (user, initiative), upserted.
type Progress struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	UserID       uint64    `gorm:"not null;uniqueIndex:idx_progress_user_initiative" json:"user_id"`
	InitiativeID uint64    `gorm:"not null;uniqueIndex:idx_progress_user_initiative" json:"initiative_id"`
	Percentage   int       `gorm:"not null;default:0" json:"percentage"`
	Completed    bool      `gorm:"not null;default:false" json:"completed"`
	Detail       string    `gorm:"type:text" json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Initiative Initiative `gorm:"foreignKey:InitiativeID" json:"initiative,omitempty"`
}
