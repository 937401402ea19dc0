package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"farmhub/internal/core"
)

// table is a mutex-guarded record slice in insertion order.
// Records leave the table only as clones.
type table[T any, PT core.Record[T], P core.Patch[PT]] struct {
	mu        sync.Mutex
	entity    string
	rows      []T
	highWater int64
	latency   Latency
	now       func() time.Time
}

func newTable[T any, PT core.Record[T], P core.Patch[PT]](entity string, latency Latency, now func() time.Time) *table[T, PT, P] {
	return &table[T, PT, P]{entity: entity, latency: latency, now: now}
}

// seed loads records keeping their ids. Records without an id get the next one.
func (t *table[T, PT, P]) seed(recs []T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, rec := range recs {
		rec = PT(&rec).Clone()
		h := PT(&rec).Header()
		if h.ID <= 0 {
			h.ID = t.highWater + 1
		}
		if h.Revision <= 0 {
			h.Revision = 1
		}
		if h.CreatedAt.IsZero() {
			h.CreatedAt = t.now()
		}
		t.highWater = max(t.highWater, h.ID)
		t.rows = append(t.rows, rec)
	}
}

func (t *table[T, PT, P]) indexOf(id int64) int {
	for i := range t.rows {
		if PT(&t.rows[i]).Header().ID == id {
			return i
		}
	}
	return -1
}

func (t *table[T, PT, P]) List(ctx context.Context) ([]T, error) {
	if err := t.latency.wait(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, len(t.rows))
	for i := range t.rows {
		out[i] = PT(&t.rows[i]).Clone()
	}
	return out, nil
}

func (t *table[T, PT, P]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := t.latency.wait(ctx); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return zero, core.NotFound(t.entity, id)
	}
	return PT(&t.rows[i]).Clone(), nil
}

func (t *table[T, PT, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := t.latency.wait(ctx); err != nil {
		return zero, err
	}
	rec = PT(&rec).Clone()
	if err := PT(&rec).Validate(); err != nil {
		return zero, fmt.Errorf("create %s: %w", t.entity, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.highWater++
	*PT(&rec).Header() = core.Meta{ID: t.highWater, Revision: 1, CreatedAt: t.now()}
	t.rows = append(t.rows, rec)
	return PT(&rec).Clone(), nil
}

func (t *table[T, PT, P]) Update(ctx context.Context, id int64, patch P) (T, error) {
	var zero T
	if err := t.latency.wait(ctx); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return zero, core.NotFound(t.entity, id)
	}

	cur := PT(&t.rows[i]).Clone()
	meta := *PT(&cur).Header()
	if exp := patch.Expected(); exp != nil && *exp != meta.Revision {
		return zero, &core.ConflictError{Entity: t.entity, ID: id, Expected: *exp, Current: meta.Revision}
	}
	if err := patch.ApplyTo(PT(&cur)); err != nil {
		return zero, fmt.Errorf("update %s %d: %w", t.entity, id, err)
	}
	if err := PT(&cur).Validate(); err != nil {
		return zero, fmt.Errorf("update %s %d: %w", t.entity, id, err)
	}
	meta.Revision++
	*PT(&cur).Header() = meta
	t.rows[i] = cur
	return PT(&cur).Clone(), nil
}

func (t *table[T, PT, P]) Delete(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := t.latency.wait(ctx); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return zero, core.NotFound(t.entity, id)
	}
	removed := t.rows[i]
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return removed, nil
}
