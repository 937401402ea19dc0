package view

import (
	"slices"
	"time"

	"farmhub/internal/core"
	"farmhub/internal/finance"
	"farmhub/internal/loader"
	"farmhub/internal/weather"
)

const (
	recentTaskLimit        = 5
	recentTransactionLimit = 3
)

type Dashboard struct {
	Farm         core.Farm `json:"farm"`
	TotalCrops   int       `json:"totalCrops"`
	ActiveCrops  int       `json:"activeCrops"`
	PendingTasks int       `json:"pendingTasks"`
	OverdueTasks int       `json:"overdueTasks"`

	Month        finance.Range `json:"month"`
	MonthIncome  core.Money    `json:"monthIncome"`
	MonthExpense core.Money    `json:"monthExpense"`
	MonthProfit  core.Money    `json:"monthProfit"`

	RecentTasks        []TaskItem        `json:"recentTasks"`
	RecentTransactions []TransactionItem `json:"recentTransactions"`
	Weather            *weather.Day      `json:"weather"`
}

// BuildDashboard summarises one farm as of now. It fails with NotFound when
// the farm is not in the snapshot.
func BuildDashboard(snap loader.Snapshot, farmID int64, now time.Time) (Dashboard, error) {
	farm, ok := snap.Farm(farmID)
	if !ok {
		return Dashboard{}, core.NotFound(core.EntityFarm, farmID)
	}
	d := Dashboard{
		Farm:               farm,
		RecentTasks:        []TaskItem{},
		RecentTransactions: []TransactionItem{},
	}

	for _, c := range snap.Crops {
		if c.FarmID != farmID {
			continue
		}
		d.TotalCrops++
		if c.Status != core.Harvested {
			d.ActiveCrops++
		}
	}

	var tasks []core.Task
	for _, t := range snap.Tasks {
		if t.FarmID != farmID {
			continue
		}
		tasks = append(tasks, t)
		if t.Status == core.Pending {
			d.PendingTasks++
		}
		if t.IsOverdue(now) {
			d.OverdueTasks++
		}
	}
	slices.SortStableFunc(tasks, func(a, b core.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	for _, t := range tasks[:min(len(tasks), recentTaskLimit)] {
		d.RecentTasks = append(d.RecentTasks, NewTaskItem(t, now))
	}

	var txs []core.Transaction
	for _, tx := range snap.Transactions {
		if tx.FarmID == farmID {
			txs = append(txs, tx)
		}
	}
	d.Month = finance.Resolve(finance.PeriodMonth, now)
	stats := finance.Compute(txs, d.Month)
	d.MonthIncome, d.MonthExpense, d.MonthProfit = stats.Income, stats.Expense, stats.Profit

	slices.SortStableFunc(txs, func(a, b core.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	for _, tx := range txs[:min(len(txs), recentTransactionLimit)] {
		d.RecentTransactions = append(d.RecentTransactions, NewTransactionItem(tx))
	}

	if len(snap.Weather) > 0 {
		today := weather.Describe(snap.Weather[0])
		d.Weather = &today
	}
	return d, nil
}
