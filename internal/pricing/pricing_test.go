package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name        string
		cost        string
		unitsPerBox int
		markup      string
		unitCost    string
		priceRaw    string
		price       string
		margin      string
	}{
		{
			name: "even division",
			cost: "120.00", unitsPerBox: 12, markup: "0.30",
			unitCost: "10.00", priceRaw: "13.00", price: "13", margin: "3.00",
		},
		{
			name: "uneven division rounds half away from zero",
			cost: "100.00", unitsPerBox: 3, markup: "0.25",
			// 100/3 = 33.333... -> 33.33; 33.33*1.25 = 41.6625 -> 41.66
			unitCost: "33.33", priceRaw: "41.66", price: "42", margin: "8.33",
		},
		{
			name: "whole raw price needs no ceiling bump",
			cost: "80.00", unitsPerBox: 10, markup: "0.50",
			unitCost: "8.00", priceRaw: "12.00", price: "12", margin: "4.00",
		},
		{
			name: "half cent rounds up",
			cost: "10.01", unitsPerBox: 2, markup: "0",
			// 10.01/2 = 5.005 -> 5.01 (half away from zero)
			unitCost: "5.01", priceRaw: "5.01", price: "6", margin: "0.00",
		},
		{
			name: "single unit box",
			cost: "17.50", unitsPerBox: 1, markup: "0.40",
			unitCost: "17.50", priceRaw: "24.50", price: "25", margin: "7.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Recalculate(dec(tt.cost), tt.unitsPerBox, dec(tt.markup))
			require.NoError(t, err)

			assert.True(t, dec(tt.unitCost).Equal(q.UnitCost), "unit cost: got %s", q.UnitCost)
			assert.True(t, dec(tt.priceRaw).Equal(q.PriceRaw), "raw price: got %s", q.PriceRaw)
			assert.True(t, dec(tt.price).Equal(q.Price), "price: got %s", q.Price)
			assert.True(t, dec(tt.margin).Equal(q.Margin), "margin: got %s", q.Margin)
		})
	}
}

func TestRecalculateIdempotent(t *testing.T) {
	first, err := Recalculate(dec("245.70"), 24, dec("0.35"))
	require.NoError(t, err)

	second, err := Recalculate(dec("245.70"), 24, dec("0.35"))
	require.NoError(t, err)

	assert.True(t, first.UnitCost.Equal(second.UnitCost))
	assert.True(t, first.PriceRaw.Equal(second.PriceRaw))
	assert.True(t, first.Price.Equal(second.Price))
	assert.True(t, first.Margin.Equal(second.Margin))
}

func TestRecalculateInvalidUnitsPerBox(t *testing.T) {
	for _, units := range []int{0, -1, -12} {
		_, err := Recalculate(dec("100"), units, dec("0.30"))
		assert.ErrorIs(t, err, ErrInvalidUnitsPerBox, "units=%d", units)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cloralex  Aroma", "cloralex aroma"},
		{"cloralex aroma", "cloralex aroma"},
		{"  Jabón Zote   Rosa ", "jabon zote rosa"},
		{"CAFÉ", "cafe"},
		{"", ""},
	}

	for _, tt := range tests {
		got := Normalize(tt.in)
		assert.Equal(t, tt.want, got)
		// Idempotency: normalizing twice changes nothing.
		assert.Equal(t, got, Normalize(got))
	}
}

func TestMatchName(t *testing.T) {
	assert.True(t, MatchName("Cloralex  Aroma", "cloralex aroma"))
	assert.True(t, MatchName("zote", "Jabón Zote Rosa 400g"))
	assert.True(t, MatchName("jabon zote", "Jabón  Zote Rosa"))
	assert.False(t, MatchName("fabuloso", "Cloralex Aroma"))
	assert.False(t, MatchName("", "Cloralex Aroma"))
}
