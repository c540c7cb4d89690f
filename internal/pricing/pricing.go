package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidUnitsPerBox flags a recalculation with a non-positive box size.
// The caller must leave the stored catalog entry untouched.
var ErrInvalidUnitsPerBox = errors.New("units per box must be greater than zero")

// Quote is the outcome of a price/margin recalculation.
type Quote struct {
	// UnitCost is the per-piece cost, rounded to 2 decimals.
	UnitCost decimal.Decimal `json:"unit_cost"`
	// PriceRaw is unit cost plus markup, rounded to 2 decimals.
	PriceRaw decimal.Decimal `json:"price_raw"`
	// Price is the customer-facing price: PriceRaw rounded up to the
	// next whole peso. The 2-decimal/ceiling split is intentional.
	Price decimal.Decimal `json:"price"`
	// Margin is PriceRaw minus UnitCost, rounded to 2 decimals.
	Margin decimal.Decimal `json:"margin"`
}

// Recalculate derives the catalog pricing figures from a new base cost,
// the number of pieces per box, and the markup expressed as a fraction
// of unit cost (0.30 for 30%).
//
// decimal.Round rounds half away from zero, which is the store's rule
// for intermediate figures.
func Recalculate(newCost decimal.Decimal, unitsPerBox int, markup decimal.Decimal) (Quote, error) {
	if unitsPerBox <= 0 {
		return Quote{}, ErrInvalidUnitsPerBox
	}

	unitCost := newCost.Div(decimal.NewFromInt(int64(unitsPerBox))).Round(2)
	priceRaw := unitCost.Mul(decimal.NewFromInt(1).Add(markup)).Round(2)

	return Quote{
		UnitCost: unitCost,
		PriceRaw: priceRaw,
		Price:    priceRaw.Ceil(),
		Margin:   priceRaw.Sub(unitCost).Round(2),
	}, nil
}
