package models

import (
	"time"

	"abarrotes-backend/internal/corte"
)

// CashCut is one persisted cash-register reconciliation. Written once,
// never updated.
type CashCut struct {
	ID              int       `json:"id"`
	corte.Inputs              // the eight captured figures
	corte.Result              // derived totals
	Note            string    `json:"note,omitempty"`
	CreatedByUserID int       `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateCashCutRequest struct {
	corte.Inputs
	Note string `json:"note"`
}
