package models

import "github.com/google/uuid"

type User struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Role         string `gorm:"default:'member'" json:"role"` // admin, member
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Subscription state. Mutated by plan assignment and the expiry
	// reaper; the scan core only reads it for quota checks.
	PlanID            *uuid.UUID `gorm:"type:uuid;index" json:"plan_id,omitempty"`
	PlanStartedAt     int64      `json:"plan_started_at,omitempty"`
	PlanEndsAt        int64      `json:"plan_ends_at,omitempty"`
	IsPlanActive      bool       `gorm:"default:false;index" json:"is_plan_active"`
	CanGenerateReport bool       `gorm:"default:false" json:"can_generate_report"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (User) TableName() string {
	return "users"
}
