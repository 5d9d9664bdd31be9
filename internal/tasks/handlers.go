package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/reconova/reconova/internal/scan"
)

type Handler struct {
	orchestrator *scan.Orchestrator
	logger       *slog.Logger
}

func NewHandler(orchestrator *scan.Orchestrator, logger *slog.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeScanExecute, h.HandleScanExecute)
}

func (h *Handler) HandleScanExecute(ctx context.Context, t *asynq.Task) error {
	var payload ScanExecutePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	h.logger.Info("executing scan", "scan_id", payload.ScanID)

	if err := h.orchestrator.Execute(ctx, payload.ScanID); err != nil {
		h.logger.Error("scan execution failed", "scan_id", payload.ScanID, "error", err)
		return err
	}
	return nil
}
