package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/reconova/reconova/internal/api/dto"
	"github.com/reconova/reconova/internal/database/models"
	"gorm.io/gorm"
)

type PlanHandler struct {
	db *gorm.DB
}

func NewPlanHandler(db *gorm.DB) *PlanHandler {
	return &PlanHandler{db: db}
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	var plans []models.Plan
	err := h.db.WithContext(r.Context()).
		Order("priority ASC, price_cents ASC").
		Find(&plans).Error
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list plans"})
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	plan := models.Plan{
		Name:              req.Name,
		Description:       req.Description,
		PriceCents:        req.PriceCents,
		DurationDays:      req.DurationDays,
		MaxScansPerDay:    req.MaxScansPerDay,
		CanGenerateReport: req.CanGenerateReport,
		Priority:          req.Priority,
	}
	if err := h.db.WithContext(r.Context()).Create(&plan).Error; err != nil {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Failed to create plan"})
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

// Assign puts a user on a plan, stamping the subscription window from the
// plan's duration. Plans that never expire get no end date.
func (h *PlanHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user id"})
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid plan id"})
		return
	}

	err = h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var plan models.Plan
		if err := tx.First(&plan, planID).Error; err != nil {
			return err
		}
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		user.PlanID = &plan.ID
		user.PlanStartedAt = now.Unix()
		user.IsPlanActive = true
		user.CanGenerateReport = plan.CanGenerateReport
		if plan.Expires() {
			user.PlanEndsAt = now.AddDate(0, 0, plan.DurationDays).Unix()
		} else {
			user.PlanEndsAt = 0
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User or plan not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Plan assigned"})
}
