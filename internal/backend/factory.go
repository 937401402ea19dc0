package backend

import (
	"context"
	"fmt"
	"log/slog"

	"farmhub/internal/fixtures"
	"farmhub/internal/storage"
	"farmhub/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func loadFixtures(config Config) (fixtures.Set, error) {
	if config.FixturesDir != "" {
		return fixtures.LoadDir(config.FixturesDir)
	}
	return fixtures.Load()
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	if config.SeedFixtures {
		set, err := loadFixtures(config)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
		if err := repo.Seed(ctx, set); err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to seed SQLite repository: %w", err)
		}
	}

	version, err := storage.SchemaVersion(config.SQLiteDBPath)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"schema_version", version,
		"seeded", config.SeedFixtures)

	return &BackendResult{
		Repository: repo,
		Cleanup:    repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	var set fixtures.Set
	if config.SeedFixtures {
		var err error
		if set, err = loadFixtures(config); err != nil {
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
	}

	repo := memory.New(set, memory.WithLatency(config.Latency))

	f.logger.Info("Initialized memory backend",
		"fixtures_dir", config.FixturesDir,
		"farms", len(set.Farms),
		"latency_min", config.Latency.Min,
		"latency_max", config.Latency.Max)

	return &BackendResult{
		Repository: repo,
		Cleanup:    repo.Close,
	}, nil
}
