package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"abarrotes-backend/internal/assistant"
	"abarrotes-backend/internal/corte"
	"abarrotes-backend/internal/metrics"
	"abarrotes-backend/internal/middleware"
	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/reports"
	"abarrotes-backend/internal/repositories"
	"abarrotes-backend/internal/services"
	"abarrotes-backend/pkg/utils"
)

type CashCutHandler struct {
	Service   *services.CashCutService
	Assistant *assistant.Client
}

func NewCashCutHandler(s *services.CashCutService, ai *assistant.Client) *CashCutHandler {
	return &CashCutHandler{Service: s, Assistant: ai}
}

// Preview runs the arithmetic without saving anything.
func (h *CashCutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var in corte.Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	utils.JSON(w, http.StatusOK, h.Service.Preview(in))
}

// Close reconciles and stores the cut. Stored cuts are immutable.
func (h *CashCutHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateCashCutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cut, err := h.Service.Close(r.Context(), userID, &req)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to close cash cut")
		return
	}

	metrics.CashCutsTotal.WithLabelValues(strconv.FormatBool(cut.Balanced())).Inc()

	utils.JSON(w, http.StatusCreated, cut)
}

func (h *CashCutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid cash cut id")
		return
	}

	cut, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Cash cut not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to get cash cut")
		return
	}

	utils.JSON(w, http.StatusOK, cut)
}

// History lists cuts in a date range, defaulting to today.
func (h *CashCutHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var start, end time.Time
	var err error
	if v := q.Get("start"); v != "" {
		if start, err = time.Parse(time.RFC3339, v); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid start date")
			return
		}
	}
	if v := q.Get("end"); v != "" {
		if end, err = time.Parse(time.RFC3339, v); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid end date")
			return
		}
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	cuts, err := h.Service.History(r.Context(), start, end, limit, offset)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list cash cuts")
		return
	}
	if cuts == nil {
		cuts = []models.CashCut{}
	}

	utils.JSON(w, http.StatusOK, cuts)
}

// Report downloads a stored cut as PDF.
func (h *CashCutHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid cash cut id")
		return
	}

	cut, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Cash cut not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to get cash cut")
		return
	}

	pdf, err := reports.CashCutPDF(cut)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=corte-%d.pdf", cut.ID))
	w.Write(pdf)
}

// ParseText extracts cut figures from free-form notes using the
// assistant, returning inputs plus the derived preview.
func (h *CashCutHandler) ParseText(w http.ResponseWriter, r *http.Request) {
	if h.Assistant == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Assistant not configured")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in, err := h.Assistant.ParseCashCut(r.Context(), req.Text)
	if err != nil {
		metrics.AssistantRequestsTotal.WithLabelValues("error").Inc()
		utils.Error(w, http.StatusUnprocessableEntity, "Could not extract cash cut from text")
		return
	}
	metrics.AssistantRequestsTotal.WithLabelValues("ok").Inc()

	utils.JSON(w, http.StatusOK, map[string]any{
		"inputs":  in,
		"preview": corte.Reconcile(in),
	})
}
