package models

import "time"

// MovementDirection says which way money flows through an account.
type MovementDirection string

const (
	DirectionIn  MovementDirection = "IN"
	DirectionOut MovementDirection = "OUT"
)

// Movement is one append-only posting against an account. Deleting an
// account leaves its movements in place as the audit trail.
type Movement struct {
	ID               int               `json:"id"`
	AccountID        int               `json:"account_id"`
	Amount           float64           `json:"amount"`
	Direction        MovementDirection `json:"direction"`
	Category         string            `json:"category"`
	Note             string            `json:"note"`
	CounterAccountID *int              `json:"counter_account_id,omitempty"`
	// BalanceAfter is the account balance snapshot after this posting.
	BalanceAfter float64   `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateMovementRequest struct {
	AccountID        int               `json:"account_id"`
	Amount           float64           `json:"amount"`
	Direction        MovementDirection `json:"direction"`
	Category         string            `json:"category"`
	Note             string            `json:"note"`
	CounterAccountID *int              `json:"counter_account_id"`
}

// MovementFilter narrows movement listings.
type MovementFilter struct {
	AccountID *int       `json:"account_id"`
	Category  string     `json:"category"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
