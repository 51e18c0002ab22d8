package models

import "time"

// Vote is one user's vote on a pending initiative. The composite unique index
// makes duplicate casts a conflict rather than a second row.
type Vote struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	UserID       uint64    `gorm:"not null;uniqueIndex:idx_votes_user_initiative" json:"user_id"`
	InitiativeID uint64    `gorm:"not null;uniqueIndex:idx_votes_user_initiative" json:"initiative_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Initiative Initiative `gorm:"foreignKey:InitiativeID" json:"initiative,omitempty"`
}
