// Package view derives the filtered, sorted and counted record lists the
// API serves from a loaded snapshot and the caller's selection.
package view

import (
	"strings"
)

// All is the tab or status value that disables filtering.
const All = "all"

// matchFarm treats 0 as every farm.
func matchFarm(farmID, want int64) bool {
	return want == 0 || farmID == want
}

// matchQuery is a case-insensitive substring match over any of fields.
func matchQuery(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func normalize(tab string) string {
	tab = strings.TrimSpace(tab)
	if tab == "" {
		return All
	}
	return tab
}
