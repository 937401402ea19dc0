// Package store defines the record store ports shared by the memory and SQLite backends.
package store

import (
	"context"

	"farmhub/internal/core"
)

// Records is the CRUD contract every entity store fulfils.
// T is the record type and P its patch type.
type Records[T any, P any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id int64, patch P) (T, error)
	Delete(ctx context.Context, id int64) (T, error)
}

type (
	Farms        = Records[core.Farm, core.FarmPatch]
	Crops        = Records[core.Crop, core.CropPatch]
	Tasks        = Records[core.Task, core.TaskPatch]
	Transactions = Records[core.Transaction, core.TransactionPatch]
)

// WeatherReader is the read-only forecast store keyed by date.
type WeatherReader interface {
	List(ctx context.Context) ([]core.WeatherDay, error)
	Get(ctx context.Context, date core.Date) (core.WeatherDay, error)
}

// Repository groups the stores of one backend.
type Repository interface {
	Farms() Farms
	Crops() Crops
	Tasks() Tasks
	Transactions() Transactions
	Weather() WeatherReader
	Close() error
}
