package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/reconova/reconova/internal/scan"
)

// Enqueuer accepts a scan through the orchestrator and hands execution to
// the queue. It is the production ScanTrigger for both the schedule
// ticker and the HTTP API.
type Enqueuer struct {
	orchestrator *scan.Orchestrator
	client       *asynq.Client
	logger       *slog.Logger
}

func NewEnqueuer(orchestrator *scan.Orchestrator, client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{
		orchestrator: orchestrator,
		client:       client,
		logger:       logger,
	}
}

// TriggerScan reserves the scan against the user's quota and enqueues its
// execution. If the queue rejects the task the reserved scan is finalized
// as failed so the returned id never dangles.
func (e *Enqueuer) TriggerScan(ctx context.Context, userID uuid.UUID, target, tool string, taskID uuid.UUID) (string, error) {
	scanID, err := e.orchestrator.StartScan(ctx, userID, target, tool, taskID)
	if err != nil {
		return "", err
	}

	task, err := NewScanExecuteTask(ScanExecutePayload{ScanID: scanID})
	if err != nil {
		return "", e.abandon(ctx, scanID, fmt.Errorf("building task: %w", err))
	}
	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return "", e.abandon(ctx, scanID, fmt.Errorf("enqueueing scan: %w", err))
	}
	return scanID, nil
}

func (e *Enqueuer) abandon(ctx context.Context, scanID string, cause error) error {
	if err := e.orchestrator.FailScan(ctx, scanID, cause.Error()); err != nil {
		e.logger.Error("failed to finalize abandoned scan", "scan_id", scanID, "error", err)
	}
	return cause
}
