package view

import (
	"slices"

	"farmhub/internal/core"
	"farmhub/internal/finance"
)

var TransactionTabs = []string{All, string(core.Income), string(core.Expense)}

type TransactionFilter struct {
	FarmID int64
	Query  string
	Tab    string
	// Range limits the list to a period; the zero Range keeps every date.
	Range finance.Range
}

type TransactionItem struct {
	core.Transaction
	CategoryLabel string `json:"categoryLabel"`
	Display       string `json:"display"`
}

type TransactionList struct {
	Items  []TransactionItem `json:"items"`
	Counts map[string]int    `json:"counts"`
	Total  int               `json:"total"`
}

func NewTransactionItem(tx core.Transaction) TransactionItem {
	return TransactionItem{
		Transaction:   tx,
		CategoryLabel: finance.CategoryLabel(tx.Category),
		Display:       finance.Format(tx.Amount),
	}
}

// Transactions filters by farm, range, search text over description and
// category, and type tab. Newest dates come first.
func Transactions(txs []core.Transaction, f TransactionFilter) TransactionList {
	tab := normalize(f.Tab)
	out := TransactionList{Items: []TransactionItem{}, Counts: make(map[string]int, len(TransactionTabs))}
	for _, tb := range TransactionTabs {
		out.Counts[tb] = 0
	}

	for _, tx := range txs {
		if !matchFarm(tx.FarmID, f.FarmID) || !f.Range.Contains(tx.Date) {
			continue
		}
		out.Counts[All]++
		out.Counts[string(tx.Type)]++

		if !matchQuery(f.Query, tx.Description, tx.Category) {
			continue
		}
		if tab != All && string(tx.Type) != tab {
			continue
		}
		out.Items = append(out.Items, NewTransactionItem(tx))
	}

	slices.SortStableFunc(out.Items, func(a, b TransactionItem) int {
		return b.Date.Compare(a.Date.Time)
	})
	out.Total = len(out.Items)
	return out
}
