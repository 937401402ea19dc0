package sheets

import (
	"context"
	"strconv"

	"farmhub/internal/core"
	"farmhub/internal/finance"
)

// Header is the first row of every ledger sheet.
var Header = []any{"ID", "Date", "Farm", "Type", "Category", "Description", "Amount", "Crop"}

// LedgerRow is one transaction as mirrored in the spreadsheet.
type LedgerRow struct {
	ID          int64
	Date        core.Date
	Farm        string
	Type        core.TransactionType
	Category    string
	Description string
	Amount      core.Money
	Crop        string
}

// RowFor builds the ledger row of tx. farm and crop are display names; crop
// may be empty.
func RowFor(tx core.Transaction, farm, crop string) LedgerRow {
	return LedgerRow{
		ID:          tx.ID,
		Date:        tx.Date,
		Farm:        farm,
		Type:        tx.Type,
		Category:    finance.CategoryLabel(tx.Category),
		Description: tx.Description,
		Amount:      tx.Amount,
		Crop:        crop,
	}
}

// Values returns the cells in Header order. Expenses are negative so the
// sheet can sum the column.
func (r LedgerRow) Values() []any {
	amount := r.Amount.Float()
	if r.Type == core.Expense {
		amount = -amount
	}
	return []any{strconv.FormatInt(r.ID, 10), r.Date.String(), r.Farm, string(r.Type), r.Category, r.Description, amount, r.Crop}
}

// Ports for outbound adapters.
type (
	LedgerWriter interface {
		Append(ctx context.Context, row LedgerRow) (rowRef string, err error)
	}

	// LedgerDeleter removes every row carrying the transaction id, whatever
	// year sheet it is in. Deleting a missing id is not an error.
	LedgerDeleter interface {
		Delete(ctx context.Context, id int64) (removed int, err error)
	}

	Ledger interface {
		LedgerWriter
		LedgerDeleter
	}
)
