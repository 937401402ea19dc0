// Package finance aggregates transactions into period totals, category
// breakdowns and a monthly series.
package finance

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"

	"farmhub/internal/core"
	"farmhub/internal/labels"
)

// Stats summarises the transactions that fall within Range.
type Stats struct {
	Range   Range      `json:"range"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Profit  core.Money `json:"profit"`
	// ExpenseByCategory holds expense totals keyed by category.
	ExpenseByCategory map[string]core.Money `json:"expenseByCategory"`
	// Categories is ExpenseByCategory ordered by amount, largest first.
	Categories []core.CategoryAmount `json:"categories"`
	Monthly    []core.MonthSummary   `json:"monthly"`
	Count      int                   `json:"count"`
}

// InPeriod returns the transactions dated within r, keeping their order.
func InPeriod(txs []core.Transaction, r Range) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// Compute aggregates txs over r. It does not modify txs and is deterministic.
func Compute(txs []core.Transaction, r Range) Stats {
	period := InPeriod(txs, r)
	stats := Stats{
		Range:             r,
		ExpenseByCategory: map[string]core.Money{},
		Categories:        []core.CategoryAmount{},
		Count:             len(period),
	}

	for _, tx := range period {
		switch tx.Type {
		case core.Income:
			stats.Income = stats.Income.Add(tx.Amount)
		case core.Expense:
			stats.Expense = stats.Expense.Add(tx.Amount)
			cat := tx.Category
			if strings.TrimSpace(cat) == "" {
				cat = core.OtherCategory
			}
			stats.ExpenseByCategory[cat] = stats.ExpenseByCategory[cat].Add(tx.Amount)
		}
	}
	stats.Profit = stats.Income.Sub(stats.Expense)

	for name, amount := range stats.ExpenseByCategory {
		share := 0.0
		if stats.Expense.Cents > 0 {
			share = float64(amount.Cents) / float64(stats.Expense.Cents) * 100
		}
		stats.Categories = append(stats.Categories, core.CategoryAmount{
			Name:   name,
			Label:  CategoryLabel(name),
			Amount: amount,
			Share:  share,
		})
	}
	slices.SortFunc(stats.Categories, func(a, b core.CategoryAmount) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	stats.Monthly = Monthly(period, r)
	return stats
}

// Monthly returns one zero-filled entry per calendar month the range touches.
// Open bounds are narrowed to the dates present in txs.
func Monthly(txs []core.Transaction, r Range) []core.MonthSummary {
	from, to := r.From, r.To
	for _, tx := range txs {
		if from.IsZero() || (r.From.IsZero() && tx.Date.Before(from)) {
			from = tx.Date
		}
		if to.IsZero() || (r.To.IsZero() && tx.Date.After(to)) {
			to = tx.Date
		}
	}
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return []core.MonthSummary{}
	}

	var out []core.MonthSummary
	index := map[[2]int]int{}
	for cur := core.NewDate(from.Year(), from.Month(), 1); !cur.After(to); cur = core.DateOf(cur.AddDate(0, 1, 0)) {
		index[[2]int{cur.Year(), cur.Month()}] = len(out)
		out = append(out, core.MonthSummary{Year: cur.Year(), Month: cur.Month()})
	}

	for _, tx := range txs {
		i, ok := index[[2]int{tx.Date.Year(), tx.Date.Month()}]
		if !ok || !r.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case core.Income:
			out[i].Income = out[i].Income.Add(tx.Amount)
		case core.Expense:
			out[i].Expense = out[i].Expense.Add(tx.Amount)
		}
	}
	for i := range out {
		out[i].Profit = out[i].Income.Sub(out[i].Expense)
	}
	return out
}

// CategoryLabel turns a category key such as "crop-sales" into "Crop Sales".
func CategoryLabel(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		category = core.OtherCategory
	}
	return labels.Title(category)
}

// Format renders an amount as US dollars, e.g. "$1,234.56".
func Format(m core.Money) string {
	return money.New(m.Cents, money.USD).Display()
}
