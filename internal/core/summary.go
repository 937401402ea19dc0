package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Amount Money  `json:"amount"`
	// Share is the percentage of the total the amount represents.
	Share float64 `json:"share"`
}

// MonthSummary holds income and expense totals for one calendar month.
type MonthSummary struct {
	Year    int   `json:"year"`
	Month   int   `json:"month"` // 1-12
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Profit  Money `json:"profit"`
}
