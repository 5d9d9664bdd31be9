package dto

type StartScanRequest struct {
	Target string `json:"target"`
	Tool   string `json:"tool"`
	TaskID string `json:"task_id,omitempty"`
}

func (r StartScanRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Target == "" {
		errors["target"] = "Target is required"
	}
	if r.Tool == "" {
		errors["tool"] = "Tool is required"
	}

	return errors
}

type StartScanResponse struct {
	ScanID string `json:"scan_id"`
	Status string `json:"status"`
}

type QuotaResponse struct {
	Allowed bool  `json:"allowed"`
	Used    int64 `json:"used"`
	Limit   int64 `json:"limit"`
}
