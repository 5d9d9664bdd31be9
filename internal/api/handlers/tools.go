package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/reconova/reconova/internal/api/dto"
	"github.com/reconova/reconova/internal/database/models"
	"github.com/reconova/reconova/internal/scan"
	"gorm.io/gorm"
)

type ToolHandler struct {
	db *gorm.DB
}

func NewToolHandler(db *gorm.DB) *ToolHandler {
	return &ToolHandler{db: db}
}

func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	var tools []models.Tool
	err := h.db.WithContext(r.Context()).
		Order("category ASC, name ASC").
		Find(&tools).Error
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list tools"})
		return
	}

	writeJSON(w, http.StatusOK, tools)
}

func (h *ToolHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	if !scan.ValidTool(req.Name) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid tool name"})
		return
	}

	tool := models.Tool{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := h.db.WithContext(r.Context()).Create(&tool).Error; err != nil {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Tool already exists"})
		return
	}

	writeJSON(w, http.StatusCreated, tool)
}
