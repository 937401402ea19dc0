package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmhub/internal/core"
)

var farmMapper = mapper[core.Farm]{
	entity:  core.EntityFarm,
	table:   "farms",
	columns: []string{"name", "size", "unit", "location"},
	dest: func(f *core.Farm) []any {
		return []any{&f.Name, &f.Size, &f.Unit, &f.Location}
	},
	args: func(f *core.Farm) []any {
		return []any{f.Name, f.Size, string(f.Unit), f.Location}
	},
}

var cropMapper = mapper[core.Crop]{
	entity: core.EntityCrop,
	table:  "crops",
	columns: []string{"farm_id", "name", "variety", "quantity", "unit",
		"planting_date", "expected_harvest", "status", "notes"},
	dest: func(c *core.Crop) []any {
		return []any{&c.FarmID, &c.Name, &c.Variety, &c.Quantity, &c.Unit,
			dateText{&c.PlantingDate}, dateText{&c.ExpectedHarvest}, &c.Status, &c.Notes}
	},
	args: func(c *core.Crop) []any {
		return []any{c.FarmID, c.Name, c.Variety, c.Quantity, string(c.Unit),
			c.PlantingDate.String(), c.ExpectedHarvest.String(), string(c.Status), c.Notes}
	},
}

var taskMapper = mapper[core.Task]{
	entity: core.EntityTask,
	table:  "tasks",
	columns: []string{"farm_id", "crop_id", "title", "type", "description",
		"due_date", "priority", "status", "completed_at"},
	dest: func(t *core.Task) []any {
		return []any{&t.FarmID, &t.CropID, &t.Title, &t.Type, &t.Description,
			dateText{&t.DueDate}, &t.Priority, &t.Status, nullTimeText{&t.CompletedAt}}
	},
	args: func(t *core.Task) []any {
		return []any{t.FarmID, t.CropID, t.Title, string(t.Type), t.Description,
			t.DueDate.String(), string(t.Priority), string(t.Status), formatNullTime(t.CompletedAt)}
	},
}

// Every transaction write puts the row back in the ledger sync queue.
var transactionMapper = mapper[core.Transaction]{
	entity: core.EntityTransaction,
	table:  "transactions",
	columns: []string{"farm_id", "crop_id", "type", "category", "amount_cents",
		"description", "date"},
	dest: func(tx *core.Transaction) []any {
		return []any{&tx.FarmID, &tx.CropID, &tx.Type, &tx.Category, centsCol{&tx.Amount},
			&tx.Description, dateText{&tx.Date}}
	},
	args: func(tx *core.Transaction) []any {
		return []any{tx.FarmID, tx.CropID, string(tx.Type), tx.Category, tx.Amount.Cents,
			tx.Description, tx.Date.String()}
	},
	onUpdate: ", ledger_status = 'pending', ledger_error = NULL",
}

type weatherStore struct {
	db *sql.DB
}

const weatherSelect = `SELECT date, condition, temp_current, temp_high, temp_low, precipitation, humidity FROM weather_days`

func scanWeather(sc scanner) (core.WeatherDay, error) {
	var d core.WeatherDay
	err := sc.Scan(dateText{&d.Date}, &d.Condition,
		&d.Temperature.Current, &d.Temperature.High, &d.Temperature.Low,
		&d.Precipitation, &d.Humidity)
	return d, err
}

func (w *weatherStore) List(ctx context.Context) ([]core.WeatherDay, error) {
	rows, err := w.db.QueryContext(ctx, weatherSelect+" ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("list weather: %w", err)
	}
	defer rows.Close()

	out := []core.WeatherDay{}
	for rows.Next() {
		d, err := scanWeather(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weather: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (w *weatherStore) Get(ctx context.Context, date core.Date) (core.WeatherDay, error) {
	d, err := scanWeather(w.db.QueryRowContext(ctx, weatherSelect+" WHERE date = ?", date.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return d, core.NotFoundKey(core.EntityWeather, date.String())
	}
	if err != nil {
		return d, fmt.Errorf("get weather %s: %w", date, err)
	}
	return d, nil
}

func (w *weatherStore) upsert(ctx context.Context, q execer, d core.WeatherDay) error {
	_, err := q.ExecContext(ctx, `INSERT INTO weather_days (date, condition, temp_current, temp_high, temp_low, precipitation, humidity)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET condition = excluded.condition, temp_current = excluded.temp_current,
temp_high = excluded.temp_high, temp_low = excluded.temp_low, precipitation = excluded.precipitation, humidity = excluded.humidity`,
		d.Date.String(), d.Condition, d.Temperature.Current, d.Temperature.High, d.Temperature.Low,
		d.Precipitation, d.Humidity)
	return err
}
