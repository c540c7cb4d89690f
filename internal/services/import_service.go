package services

import (
	"context"
	"io"
	"log"

	"abarrotes-backend/internal/cache"
	"abarrotes-backend/internal/importer"
	"abarrotes-backend/internal/notify"
	"abarrotes-backend/internal/repositories"
)

// ImportService runs catalog CSV imports against the product table and
// reports progress to the owner's notification feed.
type ImportService struct {
	Products *repositories.ProductRepository
	Hub      *notify.Hub
}

func NewImportService(products *repositories.ProductRepository, hub *notify.Hub) *ImportService {
	return &ImportService{Products: products, Hub: hub}
}

// ImportResult summarizes one finished (or aborted) import run.
type ImportResult struct {
	Committed int    `json:"committed"`
	Error     string `json:"error,omitempty"`
}

// Run parses the CSV and commits it batch by batch. The progress
// callback, when given, sees the running percentage after each batch.
// An error mid-run leaves the already committed batches in place.
func (s *ImportService) Run(ctx context.Context, userID string, r io.Reader, progress importer.ProgressFunc) (ImportResult, error) {
	committed, err := importer.Import(ctx, r, s.Products, func(percent int) {
		log.Printf("[Import] %d%% committed", percent)
		if progress != nil {
			progress(percent)
		}
	})

	// Imported rows may shadow anything previously cached.
	cache.InvalidateSearches(ctx)

	result := ImportResult{Committed: committed}
	if err != nil {
		result.Error = err.Error()
		if s.Hub != nil {
			s.Hub.Publish(ctx, userID, "Importación interrumpida",
				"La carga del catálogo se detuvo; revisa el archivo y vuelve a intentarlo.")
		}
		return result, err
	}

	if s.Hub != nil {
		s.Hub.Publish(ctx, userID, "Importación completada",
			"El catálogo se actualizó correctamente.")
	}
	return result, nil
}
