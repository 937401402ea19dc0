package view

import (
	"farmhub/internal/core"
	"farmhub/internal/labels"
)

// CropStatuses lists the crop status filter options in display order.
var CropStatuses = []string{All, string(core.Planted), string(core.Growing), string(core.Ready), string(core.Harvested)}

type CropFilter struct {
	FarmID int64
	Query  string
	Status string
}

type CropItem struct {
	core.Crop
	Badge labels.Badge `json:"badge"`
}

type CropList struct {
	Items  []CropItem     `json:"items"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// Crops filters by farm, search text over name and variety, and status.
// Counts are per status over the farm's crops. Source order is kept.
func Crops(crops []core.Crop, f CropFilter) CropList {
	status := normalize(f.Status)
	out := CropList{Items: []CropItem{}, Counts: make(map[string]int, len(CropStatuses))}
	for _, s := range CropStatuses {
		out.Counts[s] = 0
	}

	for _, c := range crops {
		if !matchFarm(c.FarmID, f.FarmID) {
			continue
		}
		out.Counts[All]++
		out.Counts[string(c.Status)]++

		if !matchQuery(f.Query, c.Name, c.Variety) {
			continue
		}
		if status != All && string(c.Status) != status {
			continue
		}
		out.Items = append(out.Items, CropItem{Crop: c, Badge: labels.For(labels.KindCrop, string(c.Status))})
	}
	out.Total = len(out.Items)
	return out
}
