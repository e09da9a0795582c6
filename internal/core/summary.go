package core

// Summary aggregates the totals shown on the dashboard. Available is
// income minus expenses minus money parked in savings goals.
type Summary struct {
	TotalIncome      Money `json:"totalIncome"`
	TotalExpenses    Money `json:"totalExpenses"`
	TotalSavings     Money `json:"totalSavings"`
	AvailableBalance Money `json:"availableBalance"`
}
