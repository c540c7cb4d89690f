package models

import "time"

// Product is one catalog entry, keyed by the sanitized identifier the
// CSV importer derives. ExtraFields keeps whatever dynamic columns the
// import carried beyond the known ones.
type Product struct {
	Key            string         `json:"key"`
	Name           string         `json:"name"`
	NormalizedName string         `json:"-"`
	Cost           float64        `json:"cost"`
	UnitsPerBox    int            `json:"units_per_box"`
	Markup         float64        `json:"markup"`
	UnitCost       float64        `json:"unit_cost"`
	PriceRaw       float64        `json:"price_raw"`
	Price          float64        `json:"price"`
	Margin         float64        `json:"margin"`
	ExtraFields    map[string]any `json:"extra_fields,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type RepriceRequest struct {
	NewCost     float64 `json:"new_cost"`
	UnitsPerBox int     `json:"units_per_box"`
	// Markup is the profit margin as a fraction of unit cost.
	Markup float64 `json:"markup"`
}
