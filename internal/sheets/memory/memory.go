package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"farmhub/internal/sheets"
)

// Ledger keeps ledger rows per year in memory. It stands in for the Google
// ledger in tests and when no credentials are configured.
type Ledger struct {
	mu    sync.Mutex
	years map[int][]sheets.LedgerRow
}

var _ sheets.Ledger = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{years: make(map[int][]sheets.LedgerRow)}
}

// Append stores the row and returns a synthetic row reference.
func (l *Ledger) Append(_ context.Context, row sheets.LedgerRow) (string, error) {
	if row.Date.IsZero() {
		return "", errors.New("ledger row has no date")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	year := row.Date.Year()
	l.years[year] = append(l.years[year], row)
	// +1 for the header row
	return fmt.Sprintf("mem:%d!A%d", year, len(l.years[year])+1), nil
}

func (l *Ledger) Delete(_ context.Context, id int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for year, rows := range l.years {
		kept := slices.DeleteFunc(rows, func(r sheets.LedgerRow) bool { return r.ID == id })
		removed += len(rows) - len(kept)
		l.years[year] = kept
	}
	return removed, nil
}

// Rows returns a copy of the rows of one year sheet in append order.
func (l *Ledger) Rows(year int) []sheets.LedgerRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.years[year])
}
