package corte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want Result
	}{
		{
			name: "typical day",
			in: Inputs{
				Sales:               1000,
				PersonalConsumption: 50,
				GeneralExpenses:     100,
				DeliveredCash:       900,
			},
			want: Result{
				TotalIncome:   1000,
				TotalExpenses: 150,
				ComputedCash:  850,
				Variance:      50,
			},
		},
		{
			name: "all income categories",
			in: Inputs{
				Sales:               500.50,
				PartyIncome:         200,
				Recharges:           120,
				StayIncome:          80,
				ReceivablesPayments: 99.50,
				DeliveredCash:       1000,
			},
			want: Result{
				TotalIncome:   1000,
				TotalExpenses: 0,
				ComputedCash:  1000,
				Variance:      0,
			},
		},
		{
			name: "zero inputs",
			in:   Inputs{},
			want: Result{},
		},
		{
			name: "expenses exceed income",
			in: Inputs{
				Sales:           100,
				GeneralExpenses: 250,
				DeliveredCash:   0,
			},
			want: Result{
				TotalIncome:   100,
				TotalExpenses: 250,
				ComputedCash:  -150,
				Variance:      150,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.in)
			assert.Equal(t, tt.want, got)

			// Invariants hold regardless of the figures.
			assert.Equal(t, got.TotalIncome-got.TotalExpenses, got.ComputedCash)
			assert.Equal(t, tt.in.DeliveredCash-got.ComputedCash, got.Variance)
		})
	}
}

func TestBalanced(t *testing.T) {
	r := Reconcile(Inputs{Sales: 100, DeliveredCash: 100})
	assert.True(t, r.Balanced())

	r = Reconcile(Inputs{Sales: 100, DeliveredCash: 99})
	assert.False(t, r.Balanced())
}
