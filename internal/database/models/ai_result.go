package models

import "github.com/google/uuid"

// AIResult holds the model-generated interpretation of a scan's raw
// output. It shares the parent's ScanID and legitimately may not exist
// when the analysis call failed.
type AIResult struct {
	Base
	ScanID string    `gorm:"size:36;uniqueIndex;not null" json:"scan_id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	TaskID uuid.UUID `gorm:"type:uuid;index" json:"task_id"`
	Output string    `gorm:"type:text" json:"output"`
}

func (AIResult) TableName() string {
	return "ai_results"
}
