package finance

import (
	"fmt"
	"time"

	"farmhub/internal/core"
)

const (
	PeriodMonth     = "month"
	PeriodLastMonth = "lastMonth"
	PeriodYear      = "year"
)

// Periods lists the selectable reporting periods.
var Periods = []string{PeriodMonth, PeriodLastMonth, PeriodYear}

// Range is an inclusive span of calendar days. A zero bound is open.
type Range struct {
	From core.Date `json:"from"`
	To   core.Date `json:"to"`
}

func (r Range) String() string {
	return fmt.Sprintf("%s - %s", r.From, r.To)
}

// Contains reports whether d falls within the range, endpoints included.
func (r Range) Contains(d core.Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// Resolve turns a period name into the range it covers relative to now.
// Unknown names fall back to the current month.
func Resolve(period string, now time.Time) Range {
	today := core.DateOf(now)
	y, m := today.Year(), today.Month()
	switch period {
	case PeriodYear:
		return Range{From: core.NewDate(y, 1, 1), To: core.NewDate(y, 12, 31)}
	case PeriodLastMonth:
		first := core.NewDate(y, m-1, 1)
		return Range{From: first, To: monthEnd(first)}
	default:
		first := core.NewDate(y, m, 1)
		return Range{From: first, To: monthEnd(first)}
	}
}

func monthEnd(first core.Date) core.Date {
	return core.DateOf(first.AddDate(0, 1, -1))
}
