package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/reconova/reconova/internal/api/dto"
	"github.com/reconova/reconova/internal/api/middleware"
	"github.com/reconova/reconova/internal/database/models"
	"github.com/reconova/reconova/internal/scan"
)

// ScanTrigger reserves a scan against quota and schedules its execution.
// The production implementation is tasks.Enqueuer.
type ScanTrigger interface {
	TriggerScan(ctx context.Context, userID uuid.UUID, target, tool string, taskID uuid.UUID) (string, error)
}

type ScanHandler struct {
	store   *scan.Store
	quota   *scan.QuotaGuard
	trigger ScanTrigger
}

func NewScanHandler(store *scan.Store, quota *scan.QuotaGuard, trigger ScanTrigger) *ScanHandler {
	return &ScanHandler{store: store, quota: quota, trigger: trigger}
}

func (h *ScanHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req dto.StartScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	var taskID uuid.UUID
	if req.TaskID != "" {
		parsed, err := uuid.Parse(req.TaskID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task id"})
			return
		}
		taskID = parsed
	}

	scanID, err := h.trigger.TriggerScan(r.Context(), userID, req.Target, req.Tool, taskID)
	if err != nil {
		writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, dto.StartScanResponse{
		ScanID: scanID,
		Status: string(models.ScanStatusPending),
	})
}

func writeScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scan.ErrQuotaExceeded):
		writeJSON(w, http.StatusTooManyRequests, dto.ErrorResponse{Error: "Daily scan limit reached"})
	case errors.Is(err, scan.ErrNoActivePlan):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "No active plan"})
	case errors.Is(err, scan.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start scan"})
	}
}

func (h *ScanHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	scans, err := h.store.ScansForUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list scans"})
		return
	}

	writeJSON(w, http.StatusOK, scans)
}

func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	scanID := chi.URLParam(r, "scanID")

	rec, err := h.store.ScanWithAnalysis(r.Context(), scanID)
	if err != nil || rec.UserID != userID {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Scan not found"})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *ScanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	scanID := chi.URLParam(r, "scanID")

	if err := h.store.MarkScanDeleted(r.Context(), scanID, userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete scan"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Scan deleted"})
}

// Download streams the raw tool output as a text attachment.
func (h *ScanHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	scanID := chi.URLParam(r, "scanID")

	rec, err := h.store.ScanByID(r.Context(), scanID)
	if err != nil || rec.UserID != userID {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Scan not found"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "scan-"+rec.ScanID+".txt"))
	_, _ = w.Write([]byte(rec.Output))
}

func (h *ScanHandler) Quota(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	used, limit, err := h.quota.Usage(r.Context(), userID)
	if err != nil {
		if errors.Is(err, scan.ErrNoActivePlan) {
			writeJSON(w, http.StatusOK, dto.QuotaResponse{Allowed: false})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to check quota"})
		return
	}

	writeJSON(w, http.StatusOK, dto.QuotaResponse{
		Allowed: limit > 0 && used < limit,
		Used:    used,
		Limit:   limit,
	})
}
