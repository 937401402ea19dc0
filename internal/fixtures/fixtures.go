// Package fixtures holds the seed records the stores start with.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"farmhub/internal/core"
)

//go:embed data/*.json
var embedded embed.FS

// Set is one full collection of seed records.
type Set struct {
	Farms        []core.Farm
	Crops        []core.Crop
	Tasks        []core.Task
	Transactions []core.Transaction
	Weather      []core.WeatherDay
}

// Load returns the embedded fixtures.
func Load() (Set, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return Set{}, err
	}
	return LoadFS(sub)
}

// LoadDir reads farms.json, crops.json, tasks.json, transactions.json and weather.json from dir.
func LoadDir(dir string) (Set, error) {
	return LoadFS(os.DirFS(dir))
}

func LoadFS(fsys fs.FS) (Set, error) {
	var s Set
	files := []struct {
		name string
		dst  any
	}{
		{"farms.json", &s.Farms},
		{"crops.json", &s.Crops},
		{"tasks.json", &s.Tasks},
		{"transactions.json", &s.Transactions},
		{"weather.json", &s.Weather},
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return Set{}, fmt.Errorf("read fixture %s: %w", f.name, err)
		}
		if err := json.Unmarshal(data, f.dst); err != nil {
			return Set{}, fmt.Errorf("decode fixture %s: %w", f.name, err)
		}
	}
	return s, nil
}
