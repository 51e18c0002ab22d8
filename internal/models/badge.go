package models

import "time"

type BadgeKind string

const (
	BadgeInitiativeCompletion BadgeKind = "initiative_completion"
)

// Badge records an earned badge. The unique index keeps awards idempotent.
type Badge struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	UserID       uint64    `gorm:"not null;uniqueIndex:idx_badges_user_kind_initiative" json:"user_id"`
	Kind         BadgeKind `gorm:"type:varchar(50);not null;uniqueIndex:idx_badges_user_kind_initiative" json:"kind"`
	InitiativeID uint64    `gorm:"not null;uniqueIndex:idx_badges_user_kind_initiative" json:"initiative_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
