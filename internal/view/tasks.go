package view

import (
	"slices"
	"time"

	"farmhub/internal/core"
	"farmhub/internal/labels"
)

const (
	TabPending   = "pending"
	TabOverdue   = "overdue"
	TabToday     = "today"
	TabCompleted = "completed"
)

var TaskTabs = []string{All, TabPending, TabOverdue, TabToday, TabCompleted}

type TaskFilter struct {
	FarmID int64
	Query  string
	Tab    string
}

type TaskItem struct {
	core.Task
	Overdue       bool         `json:"overdue"`
	StatusBadge   labels.Badge `json:"statusBadge"`
	PriorityBadge labels.Badge `json:"priorityBadge"`
}

type TaskList struct {
	Items  []TaskItem     `json:"items"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// NewTaskItem decorates a task with its overdue flag and badges as of now.
func NewTaskItem(t core.Task, now time.Time) TaskItem {
	overdue := t.IsOverdue(now)
	status := string(t.Status)
	if overdue {
		status = TabOverdue
	}
	return TaskItem{
		Task:          t,
		Overdue:       overdue,
		StatusBadge:   labels.For(labels.KindTask, status),
		PriorityBadge: labels.For(labels.KindPriority, string(t.Priority)),
	}
}

func inTab(t core.Task, tab string, now time.Time) bool {
	switch tab {
	case All:
		return true
	case TabPending:
		return t.Status == core.Pending
	case TabOverdue:
		return t.IsOverdue(now)
	case TabToday:
		return t.IsDueToday(now)
	case TabCompleted:
		return t.Status == core.Completed
	}
	return false
}

// Tasks filters by farm, search text over title, type and description, and tab.
// Overdue tasks come first, then by due date; ties keep source order.
func Tasks(tasks []core.Task, f TaskFilter, now time.Time) TaskList {
	tab := normalize(f.Tab)
	out := TaskList{Items: []TaskItem{}, Counts: make(map[string]int, len(TaskTabs))}
	for _, tb := range TaskTabs {
		out.Counts[tb] = 0
	}

	for _, t := range tasks {
		if !matchFarm(t.FarmID, f.FarmID) {
			continue
		}
		for _, tb := range TaskTabs {
			if inTab(t, tb, now) {
				out.Counts[tb]++
			}
		}
		if !matchQuery(f.Query, t.Title, string(t.Type), t.Description) || !inTab(t, tab, now) {
			continue
		}
		out.Items = append(out.Items, NewTaskItem(t, now))
	}

	SortTasks(out.Items)
	out.Total = len(out.Items)
	return out
}

// SortTasks orders overdue tasks first, then by ascending due date.
func SortTasks(items []TaskItem) {
	slices.SortStableFunc(items, func(a, b TaskItem) int {
		if a.Overdue != b.Overdue {
			if a.Overdue {
				return -1
			}
			return 1
		}
		return a.DueDate.Compare(b.DueDate.Time)
	})
}
