package services

import (
	"context"
	"fmt"
	"log/slog"

	"farmhub/internal/amqp"
	"farmhub/internal/core"
	"farmhub/internal/store"
)

// Publisher announces record changes. *amqp.Client satisfies it.
type Publisher interface {
	PublishChange(ctx context.Context, entity string, action amqp.Action, id, revision, farmID int64) error
}

// Records orchestrates one entity's store writes and change events.
// A publish failure after a successful write is logged, not returned.
type Records[T any, PT core.Record[T], P core.Patch[PT]] struct {
	entity    string
	store     store.Records[T, P]
	publisher Publisher
	farmOf    func(*T) int64
	defaults  func(T) T
}

func newRecords[T any, PT core.Record[T], P core.Patch[PT]](entity string, s store.Records[T, P], pub Publisher, farmOf func(*T) int64) *Records[T, PT, P] {
	return &Records[T, PT, P]{entity: entity, store: s, publisher: pub, farmOf: farmOf}
}

func (r *Records[T, PT, P]) Entity() string { return r.entity }

func (r *Records[T, PT, P]) List(ctx context.Context) ([]T, error) {
	return r.store.List(ctx)
}

func (r *Records[T, PT, P]) Get(ctx context.Context, id int64) (T, error) {
	return r.store.Get(ctx, id)
}

func (r *Records[T, PT, P]) Create(ctx context.Context, rec T) (T, error) {
	if r.defaults != nil {
		rec = r.defaults(rec)
	}
	created, err := r.store.Create(ctx, rec)
	if err != nil {
		return created, fmt.Errorf("create %s: %w", r.entity, err)
	}
	r.publish(ctx, amqp.ActionCreated, &created)
	return created, nil
}

func (r *Records[T, PT, P]) Update(ctx context.Context, id int64, patch P) (T, error) {
	updated, err := r.store.Update(ctx, id, patch)
	if err != nil {
		return updated, fmt.Errorf("update %s: %w", r.entity, err)
	}
	r.publish(ctx, amqp.ActionUpdated, &updated)
	return updated, nil
}

// Delete removes the record without looking at its dependents.
func (r *Records[T, PT, P]) Delete(ctx context.Context, id int64) (T, error) {
	removed, err := r.store.Delete(ctx, id)
	if err != nil {
		return removed, fmt.Errorf("delete %s: %w", r.entity, err)
	}
	r.publish(ctx, amqp.ActionDeleted, &removed)
	return removed, nil
}

func (r *Records[T, PT, P]) publish(ctx context.Context, action amqp.Action, rec *T) {
	if r.publisher == nil {
		return
	}
	meta := PT(rec).Header()
	if err := r.publisher.PublishChange(ctx, r.entity, action, meta.ID, meta.Revision, r.farmOf(rec)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"entity", r.entity,
			"action", action,
			"id", meta.ID,
			"error", err)
	}
}
