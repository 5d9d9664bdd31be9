package models

// PlanDurationUnlimited marks a plan that never expires; the reaper skips it.
const PlanDurationUnlimited = -1

type Plan struct {
	Base
	Name        string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `gorm:"default:0" json:"price_cents"`

	// DurationDays of -1 means the plan never expires.
	DurationDays int `gorm:"not null" json:"duration_days"`

	// MaxScansPerDay of 0 means scanning is not allowed at all.
	MaxScansPerDay    int  `gorm:"default:0" json:"max_scans_per_day"`
	CanGenerateReport bool `gorm:"default:false" json:"can_generate_report"`
	Priority          int  `gorm:"default:0" json:"priority"`
}

func (Plan) TableName() string {
	return "plans"
}

// Expires reports whether the plan is subject to expiry reaping.
func (p *Plan) Expires() bool {
	return p.DurationDays != PlanDurationUnlimited
}
