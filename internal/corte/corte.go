package corte

// Inputs are the raw figures captured when a cash cut is made.
// Absent fields stay at their zero value.
type Inputs struct {
	Sales               float64 `json:"sales"`
	PartyIncome         float64 `json:"party_income"`
	Recharges           float64 `json:"recharges"`
	StayIncome          float64 `json:"stay_income"`
	ReceivablesPayments float64 `json:"receivables_payments"`
	PersonalConsumption float64 `json:"personal_consumption"`
	GeneralExpenses     float64 `json:"general_expenses"`
	DeliveredCash       float64 `json:"delivered_cash"`
}

// Result holds the derived totals of a cash cut.
type Result struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	ComputedCash  float64 `json:"computed_cash"`
	// Variance is delivered minus computed: positive means more cash was
	// handed over than the books expect.
	Variance float64 `json:"variance"`
}

// Reconcile derives the cash-cut totals from the labeled inputs.
// Plain float64 arithmetic, no rounding: figures are captured to the
// centavo and the variance is reviewed by a human either way.
func Reconcile(in Inputs) Result {
	income := in.Sales + in.PartyIncome + in.Recharges + in.StayIncome + in.ReceivablesPayments
	expenses := in.PersonalConsumption + in.GeneralExpenses
	computed := income - expenses

	return Result{
		TotalIncome:   income,
		TotalExpenses: expenses,
		ComputedCash:  computed,
		Variance:      in.DeliveredCash - computed,
	}
}

// Balanced reports whether the delivered cash matches the computed
// cash-on-hand exactly.
func (r Result) Balanced() bool {
	return r.Variance == 0
}
