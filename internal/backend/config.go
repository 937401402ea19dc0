package backend

import (
	"fmt"
	"time"

	"farmhub/internal/config"
	"farmhub/internal/store/memory"
)

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Fixture seeding; an empty directory means the embedded fixtures
	FixturesDir  string
	SeedFixtures bool

	// Memory backend specific
	Latency memory.Latency
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s (must be one of %v)", appConfig.DataBackend, GetBackendTypeStrings())
	}

	return Config{
		Type:         backendType,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		FixturesDir:  appConfig.FixturesDir,
		SeedFixtures: appConfig.SeedFixtures,
		Latency: memory.Latency{
			Min: appConfig.StoreLatencyMin,
			Max: appConfig.StoreLatencyMax,
		},
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s (must be one of %v)", c.Type, GetBackendTypeStrings())
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		if c.Latency.Min < 0 || c.Latency.Max < c.Latency.Min {
			return fmt.Errorf("invalid memory latency range %v-%v", c.Latency.Min, c.Latency.Max)
		}
		if c.Latency.Max > time.Minute {
			return fmt.Errorf("memory latency %v is longer than a minute", c.Latency.Max)
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, MemoryBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	strings := make([]string, len(types))
	for i, t := range types {
		strings[i] = t.String()
	}
	return strings
}
