package models

import "github.com/google/uuid"

// ReconTask groups related scans of one engagement together.
type ReconTask struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `json:"description"`
	Status      string    `gorm:"default:'open'" json:"status"` // open, closed

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (ReconTask) TableName() string {
	return "recon_tasks"
}
