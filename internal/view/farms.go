package view

import "farmhub/internal/core"

type FarmList struct {
	Items  []core.Farm    `json:"items"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// Farms filters by search text over name and location. Counts holds the
// unfiltered total under All.
func Farms(farms []core.Farm, query string) FarmList {
	out := FarmList{Items: []core.Farm{}, Counts: map[string]int{All: len(farms)}}
	for _, f := range farms {
		if matchQuery(query, f.Name, f.Location) {
			out.Items = append(out.Items, f)
		}
	}
	out.Total = len(out.Items)
	return out
}
