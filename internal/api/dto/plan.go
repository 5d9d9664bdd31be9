package dto

type CreatePlanRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	PriceCents        int64  `json:"price_cents"`
	DurationDays      int    `json:"duration_days"`
	MaxScansPerDay    int    `json:"max_scans_per_day"`
	CanGenerateReport bool   `json:"can_generate_report"`
	Priority          int    `json:"priority"`
}

func (r CreatePlanRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.DurationDays == 0 || r.DurationDays < -1 {
		errors["duration_days"] = "Duration must be positive, or -1 for unlimited"
	}
	if r.MaxScansPerDay < 0 {
		errors["max_scans_per_day"] = "Max scans per day cannot be negative"
	}

	return errors
}

type AssignPlanRequest struct {
	UserID string `json:"user_id"`
	PlanID string `json:"plan_id"`
}
