package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Initiatives []Initiative    `gorm:"foreignKey:CreatorID" json:"-"`
	Votes       []Vote          `gorm:"foreignKey:UserID" json:"-"`
	Progress    []Progress      `gorm:"foreignKey:UserID" json:"-"`
	Badges      []Badge         `gorm:"foreignKey:UserID" json:"-"`
	Companies   []CompanyMember `gorm:"foreignKey:UserID" json:"-"`
}
