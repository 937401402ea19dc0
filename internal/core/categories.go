package core

import "slices"

// OtherCategory groups transactions without a category.
const OtherCategory = "other"

var (
	ExpenseCategories = []string{
		"seeds", "fertilizer", "pesticide", "fuel", "equipment", "labor",
		"irrigation", "maintenance", "insurance", "taxes", "utilities", OtherCategory,
	}
	IncomeCategories = []string{
		"crop-sales", "livestock-sales", "government-subsidy", "insurance-payout",
		"equipment-rental", "land-rental", "consulting", OtherCategory,
	}
)

// CategoriesFor returns a copy of the category list for a transaction type.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case Expense:
		return slices.Clone(ExpenseCategories)
	case Income:
		return slices.Clone(IncomeCategories)
	}
	return nil
}

func IsValidCategory(t TransactionType, category string) bool {
	switch t {
	case Expense:
		return slices.Contains(ExpenseCategories, category)
	case Income:
		return slices.Contains(IncomeCategories, category)
	}
	return false
}
