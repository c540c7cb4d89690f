package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"abarrotes-backend/internal/assistant"
	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/pricing"
	"abarrotes-backend/internal/repositories"
	"abarrotes-backend/internal/services"
	"abarrotes-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ProductHandler struct {
	Service   *services.ProductService
	Assistant *assistant.Client
}

func NewProductHandler(s *services.ProductService, ai *assistant.Client) *ProductHandler {
	return &ProductHandler{Service: s, Assistant: ai}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	products, err := h.Service.List(r.Context(), limit, offset)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	utils.JSON(w, http.StatusOK, products)
}

// Search matches by name, accents and case ignored.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.Service.Search(r.Context(), query, limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Search failed")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	utils.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	product, err := h.Service.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Save(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Save(r.Context(), &product); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	if err := h.Service.Delete(r.Context(), key); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	utils.JSON(w, http.StatusNoContent, nil)
}

// SemanticSearch lets the assistant rerank catalog candidates by
// meaning, so queries can describe what the product is for.
func (h *ProductHandler) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	if h.Assistant == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Assistant not configured")
		return
	}

	var req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		utils.Error(w, http.StatusBadRequest, "A query is required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	// Candidate pool: the whole listing page worth of products. The
	// model only reranks, it never invents keys.
	candidates, err := h.Service.List(r.Context(), 200, 0)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load candidates")
		return
	}

	keys, err := h.Assistant.SemanticSearch(r.Context(), req.Query, candidates)
	if err != nil {
		utils.Error(w, http.StatusBadGateway, "Semantic search failed")
		return
	}
	if len(keys) > req.Limit {
		keys = keys[:req.Limit]
	}

	byKey := make(map[string]models.Product, len(candidates))
	for _, p := range candidates {
		byKey[p.Key] = p
	}
	results := make([]models.Product, 0, len(keys))
	for _, k := range keys {
		results = append(results, byKey[k])
	}

	utils.JSON(w, http.StatusOK, results)
}

// Reprice recalculates a product's prices from a new box cost. A bad
// units-per-box leaves the stored prices untouched.
func (h *ProductHandler) Reprice(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req models.RepriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.Service.Reprice(r.Context(), key, &req)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			utils.Error(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, pricing.ErrInvalidUnitsPerBox):
			utils.Error(w, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, "Reprice failed")
		}
		return
	}

	utils.JSON(w, http.StatusOK, product)
}
