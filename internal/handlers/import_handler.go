package handlers

import (
	"net/http"
	"strconv"

	"abarrotes-backend/internal/metrics"
	"abarrotes-backend/internal/middleware"
	"abarrotes-backend/internal/services"
	"abarrotes-backend/pkg/utils"
)

// maxImportBytes caps the uploaded CSV size at 20 MB.
const maxImportBytes = 20 << 20

type ImportHandler struct {
	Service *services.ImportService
}

func NewImportHandler(s *services.ImportService) *ImportHandler {
	return &ImportHandler{Service: s}
}

// Upload runs a catalog CSV import from a multipart "file" field. The
// response reports how many records were committed; an abort mid-run
// keeps what was already written.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	result, err := h.Service.Run(r.Context(), strconv.Itoa(userID), file, nil)
	metrics.ImportRecordsTotal.Add(float64(result.Committed))

	code := http.StatusOK
	if err != nil {
		// Partial imports are reported, not hidden.
		code = http.StatusUnprocessableEntity
	}
	utils.JSON(w, code, result)
}
