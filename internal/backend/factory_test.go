package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carlmjohnson/be"

	"farmhub/internal/config"
	"farmhub/internal/store/memory"
)

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", SeedFixtures: true}
	cfg, err := FromAppConfig(app)
	be.NilErr(t, err)
	be.Equal(t, SQLiteBackend, cfg.Type)
	be.Equal(t, "x.db", cfg.SQLiteDBPath)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	be.Nonzero(t, err)
	be.True(t, strings.Contains(err.Error(), "[sqlite memory]"))

	_, err = FromAppConfig(nil)
	be.Nonzero(t, err)
}

func TestCreateMemoryBackendSeeds(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend, SeedFixtures: true, Latency: memory.NoLatency})
	be.NilErr(t, err)
	defer res.Cleanup()

	farms, err := res.Repository.Farms().List(ctx)
	be.NilErr(t, err)
	be.Nonzero(t, len(farms))
}

func TestCreateMemoryBackendEmpty(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend, Latency: memory.NoLatency})
	be.NilErr(t, err)

	tasks, err := res.Repository.Tasks().List(ctx)
	be.NilErr(t, err)
	be.Equal(t, 0, len(tasks))
}

func TestCreateSQLiteBackendSeeds(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "farmhub.db"),
		SeedFixtures: true,
	})
	be.NilErr(t, err)
	defer res.Cleanup()

	crops, err := res.Repository.Crops().List(ctx)
	be.NilErr(t, err)
	be.Nonzero(t, len(crops))
}

func TestCreateBackendRejectsInvalid(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: "postgres"})
	be.Nonzero(t, err)

	_, err = NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	be.Nonzero(t, err)
}
