package memory

import (
	"context"
	"slices"
	"sync"

	"farmhub/internal/core"
)

type weatherTable struct {
	mu      sync.Mutex
	days    []core.WeatherDay
	latency Latency
}

func (w *weatherTable) List(ctx context.Context) ([]core.WeatherDay, error) {
	if err := w.latency.wait(ctx); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.days), nil
}

func (w *weatherTable) Get(ctx context.Context, date core.Date) (core.WeatherDay, error) {
	if err := w.latency.wait(ctx); err != nil {
		return core.WeatherDay{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range w.days {
		if d.Date.Equal(date) {
			return d, nil
		}
	}
	return core.WeatherDay{}, core.NotFoundKey(core.EntityWeather, date.String())
}
