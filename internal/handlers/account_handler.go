package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/repositories"
	"abarrotes-backend/internal/services"
	"abarrotes-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// AccountHandler exposes the bookkeeping endpoints: the account tree
// and the movements posted against it.
type AccountHandler struct {
	Service *services.AccountService
}

func NewAccountHandler(s *services.AccountService) *AccountHandler {
	return &AccountHandler{Service: s}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	includeHidden := r.URL.Query().Get("include_hidden") == "true"

	accounts, err := h.Service.List(r.Context(), includeHidden)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	utils.JSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	account, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Account not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to get account")
		return
	}

	utils.JSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	var req models.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Account not found")
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrAccountHasChildren):
			utils.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, repositories.ErrNotFound):
			utils.Error(w, http.StatusNotFound, "Account not found")
		default:
			utils.Error(w, http.StatusInternalServerError, "Failed to delete account")
		}
		return
	}

	utils.JSON(w, http.StatusNoContent, nil)
}

// PostMovement appends a movement, or a transfer when a counter
// account is given.
func (h *AccountHandler) PostMovement(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	movement, err := h.Service.PostMovement(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, movement)
}

// ListMovements filters the movement log by account, category and
// date range, all optional.
func (h *AccountHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.MovementFilter{Category: q.Get("category")}

	if v := q.Get("account_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid account_id")
			return
		}
		filter.AccountID = &id
	}
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid start date")
			return
		}
		filter.StartDate = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid end date")
			return
		}
		filter.EndDate = &t
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	movements, err := h.Service.ListMovements(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list movements")
		return
	}

	utils.JSON(w, http.StatusOK, movements)
}

// ListAccountMovements lists one account's movements, newest first.
func (h *AccountHandler) ListAccountMovements(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	movements, err := h.Service.ListMovements(r.Context(), &models.MovementFilter{
		AccountID: &id,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list movements")
		return
	}
	if movements == nil {
		movements = []models.Movement{}
	}

	utils.JSON(w, http.StatusOK, movements)
}

// pathID parses a numeric mux path variable.
func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}
