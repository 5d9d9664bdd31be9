package dto

type CreateScheduleRequest struct {
	Name      string   `json:"name"`
	Target    string   `json:"target"`
	TaskID    string   `json:"task_id,omitempty"`
	TimeOfDay string   `json:"time_of_day"`
	Tools     []string `json:"tools"`
}

func (r CreateScheduleRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Target == "" {
		errors["target"] = "Target is required"
	}
	if r.TimeOfDay == "" {
		errors["time_of_day"] = "Time of day is required"
	}
	if len(r.Tools) == 0 {
		errors["tools"] = "At least one tool is required"
	}

	return errors
}

type UpdateScheduleRequest struct {
	Name      *string  `json:"name,omitempty"`
	Target    *string  `json:"target,omitempty"`
	TimeOfDay *string  `json:"time_of_day,omitempty"`
	IsEnabled *bool    `json:"is_enabled,omitempty"`
	Tools     []string `json:"tools,omitempty"`
}

type ScheduleResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Target    string   `json:"target"`
	TaskID    string   `json:"task_id,omitempty"`
	TimeOfDay string   `json:"time_of_day"`
	IsEnabled bool     `json:"is_enabled"`
	Tools     []string `json:"tools"`
}
