package scan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reconova/reconova/internal/database/models"
)

// ProcessRunner runs one tool against one target and returns its output.
type ProcessRunner interface {
	Run(ctx context.Context, tool, target string) (string, error)
}

// Orchestrator owns the scan lifecycle: accepting a scan against the
// user's quota, running the tool, requesting analysis, and persisting the
// outcome. Accepting and executing are separate steps so callers get a
// scan id back immediately while execution happens in the background.
type Orchestrator struct {
	store    *Store
	runner   ProcessRunner
	analyzer Analyzer
	logger   *slog.Logger
}

func NewOrchestrator(store *Store, runner ProcessRunner, analyzer Analyzer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		runner:   runner,
		analyzer: analyzer,
		logger:   logger,
	}
}

// StartScan validates inputs and reserves a pending scan record against
// the user's daily quota. It returns the new scan id, or ErrQuotaExceeded
// / ErrNoActivePlan / ErrInvalidInput without persisting anything. A
// returned id always has a durable record behind it.
func (o *Orchestrator) StartScan(ctx context.Context, userID uuid.UUID, target, tool string, taskID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	if err := ValidateScanInput(target, tool); err != nil {
		return "", err
	}

	rec := &models.ScanResult{
		ScanID:  uuid.NewString(),
		UserID:  userID,
		TaskID:  taskID,
		Target:  target,
		Tool:    tool,
		Command: tool + " " + target,
	}
	if err := o.store.CreatePendingScan(ctx, rec); err != nil {
		return "", err
	}

	o.logger.Info("scan accepted",
		"scan_id", rec.ScanID,
		"user_id", userID,
		"tool", tool,
		"target", target,
	)
	return rec.ScanID, nil
}

// Execute runs a previously accepted scan to completion. Launch failures
// and empty output finalize the record as failed rather than leaving a
// dangling id. Analysis failures degrade gracefully: the scan completes,
// just without an analysis record.
func (o *Orchestrator) Execute(ctx context.Context, scanID string) error {
	rec, err := o.store.ScanByID(ctx, scanID)
	if err != nil {
		return err
	}
	if rec.Status != models.ScanStatusPending {
		o.logger.Warn("skipping scan not in pending state",
			"scan_id", scanID, "status", rec.Status)
		return nil
	}

	started := time.Now().UTC()
	if err := o.store.MarkScanRunning(ctx, scanID, started); err != nil {
		return fmt.Errorf("marking scan running: %w", err)
	}
	rec.Status = models.ScanStatusRunning
	rec.StartedAt = started.Unix()

	output, runErr := o.runner.Run(ctx, rec.Tool, rec.Target)
	if runErr != nil {
		o.logger.Error("tool invocation failed",
			"scan_id", scanID, "tool", rec.Tool, "target", rec.Target, "error", runErr)
		return o.finalizeFailed(ctx, rec, runErr.Error())
	}
	if strings.TrimSpace(output) == "" {
		o.logger.Warn("tool produced no output",
			"scan_id", scanID, "tool", rec.Tool, "target", rec.Target)
		return o.finalizeFailed(ctx, rec, "tool produced no output")
	}
	rec.Output = output

	var analysis *models.AIResult
	text, analysisErr := o.analyzer.Analyze(ctx, output)
	if analysisErr != nil {
		o.logger.Warn("analysis failed, keeping scan result",
			"scan_id", scanID, "error", analysisErr)
	} else {
		analysis = &models.AIResult{
			ScanID: rec.ScanID,
			UserID: rec.UserID,
			TaskID: rec.TaskID,
			Output: text,
		}
	}

	rec.Status = models.ScanStatusCompleted
	rec.CompletedAt = time.Now().UTC().Unix()
	if err := o.store.FinalizeScan(ctx, rec, analysis); err != nil {
		o.logger.Error("persisting scan result failed", "scan_id", scanID, "error", err)
		return err
	}

	o.logger.Info("scan completed",
		"scan_id", scanID,
		"tool", rec.Tool,
		"target", rec.Target,
		"analyzed", analysis != nil,
	)
	return nil
}

// FailScan finalizes an accepted scan as failed without running it. Used
// when the execution task could not be queued.
func (o *Orchestrator) FailScan(ctx context.Context, scanID, reason string) error {
	rec, err := o.store.ScanByID(ctx, scanID)
	if err != nil {
		return err
	}
	if rec.Status != models.ScanStatusPending {
		return nil
	}
	return o.finalizeFailed(ctx, rec, reason)
}

func (o *Orchestrator) finalizeFailed(ctx context.Context, rec *models.ScanResult, reason string) error {
	rec.Status = models.ScanStatusFailed
	rec.Error = reason
	rec.CompletedAt = time.Now().UTC().Unix()
	if err := o.store.FinalizeScan(ctx, rec, nil); err != nil {
		return fmt.Errorf("persisting failed scan: %w", err)
	}
	return nil
}
