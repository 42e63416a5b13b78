package models

// ForecastInput holds the monetary inputs of a savings/retirement projection.
// Only the dataset shape lives here — the projection math is owned by callers.
// Rates and percentages are not monetary and survive currency switches as-is.
type ForecastInput struct {
	CurrentNetWorth    float64 `json:"current_net_worth"`
	MonthlyIncome      float64 `json:"monthly_income"`
	MonthlyExpenses    float64 `json:"monthly_expenses"`
	MonthlySavings     float64 `json:"monthly_savings"`
	TargetNetWorth     float64 `json:"target_net_worth,omitempty"`
	ExpectedReturnPct  float64 `json:"expected_return_pct,omitempty"`
	WithdrawalRatePct  float64 `json:"withdrawal_rate_pct,omitempty"`
}

// MonthlyVariation is one point of a month-over-month cash flow series.
type MonthlyVariation struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"` // 1-12
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Delta    float64 `json:"delta"`
}
