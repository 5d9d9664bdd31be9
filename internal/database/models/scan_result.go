package models

import "github.com/google/uuid"

type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// ScanResult is one execution of one tool against one target. A row is
// created in pending state when the scan is accepted (which is also what
// counts against the daily quota) and finalized exactly once; after that
// it only ever changes via soft delete.
type ScanResult struct {
	Base
	ScanID string    `gorm:"size:36;uniqueIndex;not null" json:"scan_id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	TaskID uuid.UUID `gorm:"type:uuid;index" json:"task_id"`

	Target  string `gorm:"size:255;not null" json:"target"`
	Tool    string `gorm:"size:100;not null" json:"tool"`
	Command string `gorm:"size:512" json:"command"`
	Output  string `gorm:"type:text" json:"output"`

	Status ScanStatus `gorm:"not null;index;default:'pending'" json:"status"`
	Error  string     `json:"error,omitempty"`

	StartedAt   int64 `json:"started_at,omitempty"`
	CompletedAt int64 `json:"completed_at,omitempty"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	Analysis *AIResult `gorm:"foreignKey:ScanID;references:ScanID" json:"analysis,omitempty"`
}

func (ScanResult) TableName() string {
	return "scan_results"
}
