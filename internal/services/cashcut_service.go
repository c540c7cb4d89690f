package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"abarrotes-backend/internal/corte"
	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/notify"
	"abarrotes-backend/internal/repositories"
	"abarrotes-backend/internal/timeutil"
)

// CashCutService reconciles end-of-day cuts and files them away.
// A stored cut is never modified afterwards.
type CashCutService struct {
	Repo *repositories.CashCutRepository
	Hub  *notify.Hub
}

func NewCashCutService(repo *repositories.CashCutRepository, hub *notify.Hub) *CashCutService {
	return &CashCutService{Repo: repo, Hub: hub}
}

// Preview runs the reconciliation arithmetic without persisting
// anything. The register screen calls this on every keystroke.
func (s *CashCutService) Preview(in corte.Inputs) corte.Result {
	return corte.Reconcile(in)
}

// Close reconciles and persists a cut, then notifies the owner.
func (s *CashCutService) Close(ctx context.Context, userID int, req *models.CreateCashCutRequest) (*models.CashCut, error) {
	cut := &models.CashCut{
		Inputs:          req.Inputs,
		Result:          corte.Reconcile(req.Inputs),
		Note:            req.Note,
		CreatedByUserID: userID,
	}

	cut, err := s.Repo.Create(ctx, cut)
	if err != nil {
		return nil, err
	}

	if s.Hub != nil {
		title := "Corte de caja cerrado"
		body := fmt.Sprintf("Efectivo calculado $%.2f, diferencia $%.2f", cut.ComputedCash, cut.Variance)
		if cut.Balanced() {
			body = fmt.Sprintf("Caja cuadrada: efectivo calculado $%.2f", cut.ComputedCash)
		}
		s.Hub.Publish(ctx, strconv.Itoa(userID), title, body)
	}

	return cut, nil
}

func (s *CashCutService) Get(ctx context.Context, id int) (*models.CashCut, error) {
	return s.Repo.Get(ctx, id)
}

// History lists cuts inside [start, end]. Zero bounds default to the
// current store day in CDMX time.
func (s *CashCutService) History(ctx context.Context, start, end time.Time, limit, offset int) ([]models.CashCut, error) {
	now := timeutil.Now()
	if start.IsZero() {
		start = timeutil.StartOfDay(now)
	}
	if end.IsZero() {
		end = timeutil.EndOfDay(now)
	}
	return s.Repo.ListBetween(ctx, start, end, limit, offset)
}
