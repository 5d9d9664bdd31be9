package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeScanExecute = "scan:execute"
)

// ScanExecutePayload identifies an accepted scan waiting to run.
type ScanExecutePayload struct {
	ScanID string `json:"scan_id"`
}

func NewScanExecuteTask(payload ScanExecutePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeScanExecute, data), nil
}
