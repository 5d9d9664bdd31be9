package models

import "github.com/google/uuid"

// ScheduledScan represents a recurring scan schedule. TimeOfDay is minutes
// since midnight UTC; disabled schedules are never evaluated by the ticker.
type ScheduledScan struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Target    string    `gorm:"size:255;not null" json:"target"`
	TaskID    uuid.UUID `gorm:"type:uuid;index" json:"task_id"`
	TimeOfDay int       `gorm:"not null;index" json:"time_of_day"`
	IsEnabled bool      `gorm:"default:true;index" json:"is_enabled"`

	// Tools are cascade-deleted with their schedule.
	Tools []ScheduledTool `gorm:"foreignKey:ScheduledScanID;constraint:OnDelete:CASCADE" json:"tools"`

	User *User      `gorm:"foreignKey:UserID" json:"-"`
	Task *ReconTask `gorm:"foreignKey:TaskID" json:"-"`
}

func (ScheduledScan) TableName() string {
	return "scheduled_scans"
}

// ScheduledTool binds one catalog tool to a schedule.
type ScheduledTool struct {
	Base
	ScheduledScanID uuid.UUID `gorm:"type:uuid;index;not null" json:"scheduled_scan_id"`
	ToolID          uuid.UUID `gorm:"type:uuid" json:"tool_id"`
	ToolName        string    `gorm:"size:100;not null" json:"tool_name"`
}

func (ScheduledTool) TableName() string {
	return "scheduled_tools"
}
