// Package memory provides in-process record stores seeded from fixtures.
package memory

import (
	"slices"
	"time"

	"farmhub/internal/core"
	"farmhub/internal/fixtures"
	"farmhub/internal/store"
)

type Store struct {
	farms        *table[core.Farm, *core.Farm, core.FarmPatch]
	crops        *table[core.Crop, *core.Crop, core.CropPatch]
	tasks        *table[core.Task, *core.Task, core.TaskPatch]
	transactions *table[core.Transaction, *core.Transaction, core.TransactionPatch]
	weather      *weatherTable
}

var _ store.Repository = (*Store)(nil)

type options struct {
	latency Latency
	now     func() time.Time
}

// Option configures a Store.
type Option func(*options)

func WithLatency(l Latency) Option {
	return func(o *options) { o.latency = l }
}

// WithClock overrides the createdAt source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a store holding the records of seed.
func New(seed fixtures.Set, opts ...Option) *Store {
	o := options{latency: DefaultLatency, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		farms:        newTable[core.Farm, *core.Farm, core.FarmPatch](core.EntityFarm, o.latency, o.now),
		crops:        newTable[core.Crop, *core.Crop, core.CropPatch](core.EntityCrop, o.latency, o.now),
		tasks:        newTable[core.Task, *core.Task, core.TaskPatch](core.EntityTask, o.latency, o.now),
		transactions: newTable[core.Transaction, *core.Transaction, core.TransactionPatch](core.EntityTransaction, o.latency, o.now),
		weather:      &weatherTable{days: slices.Clone(seed.Weather), latency: o.latency},
	}
	s.farms.seed(seed.Farms)
	s.crops.seed(seed.Crops)
	s.tasks.seed(seed.Tasks)
	s.transactions.seed(seed.Transactions)
	return s
}

func (s *Store) Farms() store.Farms               { return s.farms }
func (s *Store) Crops() store.Crops               { return s.crops }
func (s *Store) Tasks() store.Tasks               { return s.tasks }
func (s *Store) Transactions() store.Transactions { return s.transactions }
func (s *Store) Weather() store.WeatherReader     { return s.weather }
func (s *Store) Close() error                     { return nil }
