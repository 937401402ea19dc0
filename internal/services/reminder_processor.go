package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"farmhub/internal/amqp"
	"farmhub/internal/core"
	"farmhub/internal/store"
)

// ReminderProcessor publishes an "overdue" event for each pending task whose
// due date has passed, once per task revision.
type ReminderProcessor struct {
	tasks     store.Tasks
	publisher Publisher

	mu       sync.Mutex
	reminded map[int64]int64 // task id -> revision already announced
}

func NewReminderProcessor(tasks store.Tasks, publisher Publisher) *ReminderProcessor {
	return &ReminderProcessor{
		tasks:     tasks,
		publisher: publisher,
		reminded:  make(map[int64]int64),
	}
}

// ProcessOverdue announces newly overdue tasks as of now and returns how many
// events were published.
func (p *ReminderProcessor) ProcessOverdue(ctx context.Context, now time.Time) (int, error) {
	if p.tasks == nil || p.publisher == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	tasks, err := p.tasks.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tasks: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	overdue := make(map[int64]bool)
	published := 0
	for _, t := range tasks {
		if !t.IsOverdue(now) {
			continue
		}
		overdue[t.ID] = true
		if rev, ok := p.reminded[t.ID]; ok && rev == t.Revision {
			continue
		}

		if err := p.publisher.PublishChange(ctx, core.EntityTask, amqp.ActionOverdue, t.ID, t.Revision, t.FarmID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish overdue reminder",
				"task_id", t.ID,
				"error", err)
			continue
		}
		p.reminded[t.ID] = t.Revision
		published++
		slog.InfoContext(ctx, "Published overdue reminder",
			"task_id", t.ID,
			"title", t.Title,
			"due_date", t.DueDate.String())
	}

	// forget tasks that were completed, rescheduled or deleted
	for id := range p.reminded {
		if !overdue[id] {
			delete(p.reminded, id)
		}
	}

	slog.InfoContext(ctx, "Overdue reminder processing complete",
		"published", published,
		"overdue", len(overdue),
		"total_checked", len(tasks))
	return published, nil
}
