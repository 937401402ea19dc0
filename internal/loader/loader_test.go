package loader_test

import (
	"context"
	"errors"
	"testing"

	"github.com/carlmjohnson/be"

	"farmhub/internal/core"
	"farmhub/internal/fixtures"
	"farmhub/internal/loader"
	"farmhub/internal/store"
	"farmhub/internal/store/memory"
)

func newLoader(t *testing.T) (*loader.Loader, *memory.Store) {
	t.Helper()
	set, err := fixtures.Load()
	be.NilErr(t, err)
	repo := memory.New(set, memory.WithLatency(memory.NoLatency))
	return loader.New(repo), repo
}

func TestLoadReadsEveryStore(t *testing.T) {
	l, _ := newLoader(t)
	snap, err := l.Load(context.Background())
	be.NilErr(t, err)
	be.Nonzero(t, len(snap.Farms))
	be.Nonzero(t, len(snap.Crops))
	be.Nonzero(t, len(snap.Tasks))
	be.Nonzero(t, len(snap.Transactions))
	be.Nonzero(t, len(snap.Weather))

	f, ok := snap.Farm(1)
	be.True(t, ok)
	be.Equal(t, "Green Valley Farm", f.Name)
}

func TestStaleGenerationDoesNotCommit(t *testing.T) {
	l, repo := newLoader(t)
	ctx := context.Background()

	older := l.Begin()
	olderSnap, err := l.Load(ctx)
	be.NilErr(t, err)

	_, err = repo.Farms().Delete(ctx, 1)
	be.NilErr(t, err)

	newer := l.Begin()
	newerSnap, err := l.Load(ctx)
	be.NilErr(t, err)

	be.True(t, l.Commit(newer, newerSnap))
	be.False(t, l.Commit(older, olderSnap))

	cur, ok := l.Current()
	be.True(t, ok)
	be.Equal(t, newer, cur.Generation)
	_, found := cur.Farm(1)
	be.False(t, found)
}

func TestRefreshCommits(t *testing.T) {
	l, _ := newLoader(t)
	_, ok := l.Current()
	be.False(t, ok)

	snap, err := l.Refresh(context.Background())
	be.NilErr(t, err)
	be.Equal(t, uint64(1), snap.Generation)

	cur, ok := l.Current()
	be.True(t, ok)
	be.Equal(t, len(snap.Tasks), len(cur.Tasks))
}

type failingRepo struct {
	store.Repository
}

type failingWeather struct{}

func (failingWeather) List(context.Context) ([]core.WeatherDay, error) {
	return nil, errors.New("forecast service down")
}

func (failingWeather) Get(context.Context, core.Date) (core.WeatherDay, error) {
	return core.WeatherDay{}, errors.New("forecast service down")
}

func (failingRepo) Weather() store.WeatherReader { return failingWeather{} }

func TestLoadFailsAsAWhole(t *testing.T) {
	repo := memory.New(fixtures.Set{}, memory.WithLatency(memory.NoLatency))
	l := loader.New(failingRepo{Repository: repo})

	_, err := l.Refresh(context.Background())
	be.True(t, errors.Is(err, loader.ErrUnavailable))

	_, ok := l.Current()
	be.False(t, ok)
}
