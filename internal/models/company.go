package models

import (
	"time"

	"gorm.io/gorm"
)

type Company struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	InviteCode string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members     []CompanyMember `gorm:"foreignKey:CompanyID" json:"members,omitempty"`
	Initiatives []Initiative    `gorm:"foreignKey:CompanyID" json:"initiatives,omitempty"`
}
