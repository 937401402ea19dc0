// Package loader fetches every record collection in parallel and keeps the
// newest complete snapshot.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"farmhub/internal/core"
	"farmhub/internal/store"
)

// ErrUnavailable wraps every load failure; callers may retry.
var ErrUnavailable = errors.New("records unavailable")

// Snapshot is one consistent read of all stores.
type Snapshot struct {
	Generation   uint64
	LoadedAt     time.Time
	Farms        []core.Farm
	Crops        []core.Crop
	Tasks        []core.Task
	Transactions []core.Transaction
	Weather      []core.WeatherDay
}

// Farm returns the farm with id, if present.
func (s Snapshot) Farm(id int64) (core.Farm, bool) {
	for _, f := range s.Farms {
		if f.ID == id {
			return f, true
		}
	}
	return core.Farm{}, false
}

type Loader struct {
	repo store.Repository
	now  func() time.Time

	issued atomic.Uint64

	mu        sync.RWMutex
	committed uint64
	current   Snapshot
}

func New(repo store.Repository) *Loader {
	return &Loader{repo: repo, now: time.Now}
}

// Load reads all five stores concurrently. The first failure cancels the rest.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Farms, err = l.repo.Farms().List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Crops, err = l.repo.Crops().List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Tasks, err = l.repo.Tasks().List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Transactions, err = l.repo.Transactions().List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Weather, err = l.repo.Weather().List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	snap.LoadedAt = l.now()
	return snap, nil
}

// Begin issues the next generation number.
func (l *Loader) Begin() uint64 {
	return l.issued.Add(1)
}

// Commit stores snap as generation gen unless a newer generation already committed.
func (l *Loader) Commit(gen uint64, snap Snapshot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen <= l.committed {
		return false
	}
	snap.Generation = gen
	l.committed = gen
	l.current = snap
	return true
}

// Refresh loads a new snapshot and commits it if it is still the newest.
// The returned snapshot is always the latest committed one.
func (l *Loader) Refresh(ctx context.Context) (Snapshot, error) {
	gen := l.Begin()
	snap, err := l.Load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if !l.Commit(gen, snap) {
		cur, _ := l.Current()
		return cur, nil
	}
	snap.Generation = gen
	return snap, nil
}

// Current returns the last committed snapshot.
func (l *Loader) Current() (Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current, l.committed > 0
}
