// Package services wraps the record stores with change events, the
// delete policy and task completion.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmhub/internal/core"
	"farmhub/internal/store"
)

type (
	FarmService struct {
		*Records[core.Farm, *core.Farm, core.FarmPatch]
		deps   *Dependents
		policy DeletePolicy
	}

	CropService struct {
		*Records[core.Crop, *core.Crop, core.CropPatch]
		deps   *Dependents
		policy DeletePolicy
	}

	TaskService struct {
		*Records[core.Task, *core.Task, core.TaskPatch]
		now func() time.Time
	}

	TransactionService struct {
		*Records[core.Transaction, *core.Transaction, core.TransactionPatch]
	}
)

// Services groups the per-entity services sharing one repository.
type Services struct {
	Farms        *FarmService
	Crops        *CropService
	Tasks        *TaskService
	Transactions *TransactionService
	Weather      store.WeatherReader
}

type Option func(*Services)

// WithClock overrides the time used for task completion.
func WithClock(now func() time.Time) Option {
	return func(s *Services) { s.Tasks.now = now }
}

// New builds the services. pub may be nil to disable change events.
func New(repo store.Repository, pub Publisher, policy DeletePolicy, opts ...Option) *Services {
	deps := &Dependents{
		Crops:        newRecords[core.Crop, *core.Crop, core.CropPatch](core.EntityCrop, repo.Crops(), pub, func(c *core.Crop) int64 { return c.FarmID }),
		Tasks:        newRecords[core.Task, *core.Task, core.TaskPatch](core.EntityTask, repo.Tasks(), pub, func(t *core.Task) int64 { return t.FarmID }),
		Transactions: newRecords[core.Transaction, *core.Transaction, core.TransactionPatch](core.EntityTransaction, repo.Transactions(), pub, func(tx *core.Transaction) int64 { return tx.FarmID }),
	}
	deps.Crops.defaults = core.Crop.Defaults
	deps.Tasks.defaults = core.Task.Defaults

	farms := newRecords[core.Farm, *core.Farm, core.FarmPatch](core.EntityFarm, repo.Farms(), pub, func(f *core.Farm) int64 { return f.ID })

	s := &Services{
		Farms:        &FarmService{Records: farms, deps: deps, policy: policy},
		Crops:        &CropService{Records: deps.Crops, deps: deps, policy: policy},
		Tasks:        &TaskService{Records: deps.Tasks, now: time.Now},
		Transactions: &TransactionService{Records: deps.Transactions},
		Weather:      repo.Weather(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dependents gives the delete policy access to the child stores.
type Dependents struct {
	Crops        *Records[core.Crop, *core.Crop, core.CropPatch]
	Tasks        *Records[core.Task, *core.Task, core.TaskPatch]
	Transactions *Records[core.Transaction, *core.Transaction, core.TransactionPatch]
}

// Delete removes a farm. Under cascade its crops, tasks and transactions go
// first; under restrict it fails with a ReferencedError while any remain.
func (s *FarmService) Delete(ctx context.Context, id int64) (core.Farm, error) {
	if s.policy == Orphan {
		return s.Records.Delete(ctx, id)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return core.Farm{}, fmt.Errorf("delete farm: %w", err)
	}

	crops, tasks, txs, err := s.deps.load(ctx)
	if err != nil {
		return core.Farm{}, fmt.Errorf("delete farm: %w", err)
	}
	crops = filter(crops, func(c core.Crop) bool { return c.FarmID == id })
	tasks = filter(tasks, func(t core.Task) bool { return t.FarmID == id })
	txs = filter(txs, func(tx core.Transaction) bool { return tx.FarmID == id })

	if s.policy == Restrict {
		d := dependents{}
		d.add(core.EntityCrop, len(crops))
		d.add(core.EntityTask, len(tasks))
		d.add(core.EntityTransaction, len(txs))
		if d.any() {
			return core.Farm{}, &core.ReferencedError{Entity: core.EntityFarm, ID: id, Dependents: d}
		}
		return s.Records.Delete(ctx, id)
	}

	for _, t := range tasks {
		if _, err := s.deps.Tasks.Delete(ctx, t.ID); ignoreNotFound(err) != nil {
			return core.Farm{}, err
		}
	}
	for _, tx := range txs {
		if _, err := s.deps.Transactions.Delete(ctx, tx.ID); ignoreNotFound(err) != nil {
			return core.Farm{}, err
		}
	}
	for _, c := range crops {
		if _, err := s.deps.Crops.Delete(ctx, c.ID); ignoreNotFound(err) != nil {
			return core.Farm{}, err
		}
	}
	return s.Records.Delete(ctx, id)
}

// Delete removes a crop. Under cascade the tasks and transactions that
// reference it are detached rather than deleted, keeping financial history.
func (s *CropService) Delete(ctx context.Context, id int64) (core.Crop, error) {
	if s.policy == Orphan {
		return s.Records.Delete(ctx, id)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return core.Crop{}, fmt.Errorf("delete crop: %w", err)
	}

	_, tasks, txs, err := s.deps.load(ctx)
	if err != nil {
		return core.Crop{}, fmt.Errorf("delete crop: %w", err)
	}
	refs := func(cropID *int64) bool { return cropID != nil && *cropID == id }
	tasks = filter(tasks, func(t core.Task) bool { return refs(t.CropID) })
	txs = filter(txs, func(tx core.Transaction) bool { return refs(tx.CropID) })

	if s.policy == Restrict {
		d := dependents{}
		d.add(core.EntityTask, len(tasks))
		d.add(core.EntityTransaction, len(txs))
		if d.any() {
			return core.Crop{}, &core.ReferencedError{Entity: core.EntityCrop, ID: id, Dependents: d}
		}
		return s.Records.Delete(ctx, id)
	}

	for _, t := range tasks {
		if _, err := s.deps.Tasks.Update(ctx, t.ID, core.TaskPatch{ClearCropID: true}); ignoreNotFound(err) != nil {
			return core.Crop{}, err
		}
	}
	for _, tx := range txs {
		if _, err := s.deps.Transactions.Update(ctx, tx.ID, core.TransactionPatch{ClearCropID: true}); ignoreNotFound(err) != nil {
			return core.Crop{}, err
		}
	}
	return s.Records.Delete(ctx, id)
}

// Toggle flips a task between pending and completed. Completing stamps
// completedAt; reopening clears it.
// Update stamps completion with the service clock when the patch changes status.
func (s *TaskService) Update(ctx context.Context, id int64, patch core.TaskPatch) (core.Task, error) {
	if patch.Status != nil && patch.Now.IsZero() {
		patch.Now = s.now()
	}
	return s.Records.Update(ctx, id, patch)
}

func (s *TaskService) Toggle(ctx context.Context, id int64) (core.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return core.Task{}, fmt.Errorf("toggle task: %w", err)
	}

	patch := core.TaskPatch{}
	patch.Expect(task.Revision)
	if task.Status == core.Completed {
		status := core.Pending
		patch.Status = &status
		patch.ClearCompletedAt = true
	} else {
		status := core.Completed
		at := s.now()
		patch.Status = &status
		patch.CompletedAt = &at
	}
	return s.Update(ctx, id, patch)
}

func (d *Dependents) load(ctx context.Context) ([]core.Crop, []core.Task, []core.Transaction, error) {
	crops, err := d.Crops.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	tasks, err := d.Tasks.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	txs, err := d.Transactions.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return crops, tasks, txs, nil
}

func filter[T any](recs []T, keep func(T) bool) []T {
	var out []T
	for _, r := range recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ignoreNotFound drops NotFound: a dependent removed concurrently is already gone.
func ignoreNotFound(err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	return err
}
