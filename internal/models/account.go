package models

import "time"

// AccountNature is the accounting classification of an account.
type AccountNature string

const (
	NatureAsset     AccountNature = "ASSET"
	NatureLiability AccountNature = "LIABILITY"
	NatureCapital   AccountNature = "CAPITAL"
	NatureIncome    AccountNature = "INCOME"
	NatureExpense   AccountNature = "EXPENSE"
	NatureSavings   AccountNature = "SAVINGS"
)

// ValidNature reports whether n is one of the six account natures.
func ValidNature(n AccountNature) bool {
	switch n {
	case NatureAsset, NatureLiability, NatureCapital, NatureIncome, NatureExpense, NatureSavings:
		return true
	}
	return false
}

// Account is a bookkeeping account. Balance moves only through
// movement postings or an explicit edit.
type Account struct {
	ID        int           `json:"id"`
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Nature    AccountNature `json:"nature"`
	Balance   float64       `json:"balance"`
	ParentID  *int          `json:"parent_id,omitempty"`
	Visible   bool          `json:"visible"`
	SortOrder int           `json:"sort_order"`
	CreatedAt time.Time     `json:"created_at"`
}

type CreateAccountRequest struct {
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Nature    AccountNature `json:"nature"`
	Balance   float64       `json:"balance"`
	ParentID  *int          `json:"parent_id"`
	Visible   *bool         `json:"visible"`
	SortOrder int           `json:"sort_order"`
}

type UpdateAccountRequest struct {
	Name      *string  `json:"name"`
	Balance   *float64 `json:"balance"`
	Visible   *bool    `json:"visible"`
	SortOrder *int     `json:"sort_order"`
}
