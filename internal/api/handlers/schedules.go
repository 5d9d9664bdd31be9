package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/reconova/reconova/internal/api/dto"
	"github.com/reconova/reconova/internal/api/middleware"
	"github.com/reconova/reconova/internal/database/models"
	"github.com/reconova/reconova/internal/scan"
	"github.com/reconova/reconova/pkg/util"
	"gorm.io/gorm"
)

type ScheduleHandler struct {
	db *gorm.DB
}

func NewScheduleHandler(db *gorm.DB) *ScheduleHandler {
	return &ScheduleHandler{db: db}
}

func toScheduleResponse(s *models.ScheduledScan) dto.ScheduleResponse {
	tools := make([]string, 0, len(s.Tools))
	for _, t := range s.Tools {
		tools = append(tools, t.ToolName)
	}
	resp := dto.ScheduleResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Target:    s.Target,
		TimeOfDay: util.FormatTimeOfDay(s.TimeOfDay),
		IsEnabled: s.IsEnabled,
		Tools:     tools,
	}
	if s.TaskID != uuid.Nil {
		resp.TaskID = s.TaskID.String()
	}
	return resp
}

// resolveTools maps tool names to catalog entries, rejecting names that
// are not registered.
func (h *ScheduleHandler) resolveTools(names []string) ([]models.ScheduledTool, error) {
	tools := make([]models.ScheduledTool, 0, len(names))
	for _, name := range names {
		if !scan.ValidTool(name) {
			return nil, errors.New("invalid tool name: " + name)
		}
		var tool models.Tool
		if err := h.db.Where("name = ?", name).First(&tool).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("unknown tool: " + name)
			}
			return nil, err
		}
		tools = append(tools, models.ScheduledTool{
			ToolID:   tool.ID,
			ToolName: tool.Name,
		})
	}
	return tools, nil
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	if !scan.ValidTarget(req.Target) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid target"})
		return
	}

	minutes, err := util.ParseTimeOfDay(req.TimeOfDay)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Time of day must be HH:MM"})
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

	tools, err := h.resolveTools(req.Tools)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	schedule := models.ScheduledScan{
		UserID:    userID,
		Name:      req.Name,
		Target:    req.Target,
		TaskID:    taskID,
		TimeOfDay: minutes,
		IsEnabled: true,
		Tools:     tools,
	}
	if err := h.db.WithContext(r.Context()).Create(&schedule).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create schedule"})
		return
	}

	writeJSON(w, http.StatusCreated, toScheduleResponse(&schedule))
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var schedules []models.ScheduledScan
	err := h.db.WithContext(r.Context()).Preload("Tools").
		Where("user_id = ?", userID).
		Order("time_of_day ASC").
		Find(&schedules).Error
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list schedules"})
		return
	}

	resp := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		resp = append(resp, toScheduleResponse(&schedules[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ScheduleHandler) get(r *http.Request) (*models.ScheduledScan, error) {
	userID := middleware.GetUserID(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "scheduleID"))
	if err != nil {
		return nil, err
	}

	var schedule models.ScheduledScan
	err = h.db.WithContext(r.Context()).Preload("Tools").
		Where("id = ? AND user_id = ?", id, userID).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.get(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Schedule not found"})
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(schedule))
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.get(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Schedule not found"})
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	if req.Target != nil {
		if !scan.ValidTarget(*req.Target) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid target"})
			return
		}
		schedule.Target = *req.Target
	}
	if req.TimeOfDay != nil {
		minutes, err := util.ParseTimeOfDay(*req.TimeOfDay)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Time of day must be HH:MM"})
			return
		}
		schedule.TimeOfDay = minutes
	}
	if req.IsEnabled != nil {
		schedule.IsEnabled = *req.IsEnabled
	}

	err = h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if req.Tools != nil {
			tools, err := h.resolveTools(req.Tools)
			if err != nil {
				return err
			}
			if err := tx.Where("scheduled_scan_id = ?", schedule.ID).
				Delete(&models.ScheduledTool{}).Error; err != nil {
				return err
			}
			for i := range tools {
				tools[i].ScheduledScanID = schedule.ID
			}
			schedule.Tools = tools
		}
		return tx.Save(schedule).Error
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, toScheduleResponse(schedule))
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.get(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Schedule not found"})
		return
	}

	err = h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scheduled_scan_id = ?", schedule.ID).
			Delete(&models.ScheduledTool{}).Error; err != nil {
			return err
		}
		return tx.Delete(schedule).Error
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete schedule"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Schedule deleted"})
}
