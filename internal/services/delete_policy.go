package services

import (
	"fmt"
	"slices"
	"strings"
)

// DeletePolicy decides what happens to the records that point at a deleted farm or crop.
type DeletePolicy string

const (
	// Orphan deletes the parent only; dependents keep their dangling ids.
	Orphan DeletePolicy = "orphan"
	// Cascade deletes a farm's dependents and detaches a crop's.
	Cascade DeletePolicy = "cascade"
	// Restrict refuses to delete a parent that still has dependents.
	Restrict DeletePolicy = "restrict"
)

var DeletePolicies = []DeletePolicy{Orphan, Cascade, Restrict}

func ParseDeletePolicy(s string) (DeletePolicy, error) {
	p := DeletePolicy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return Orphan, nil
	}
	if !slices.Contains(DeletePolicies, p) {
		return "", fmt.Errorf("unknown delete policy %q", s)
	}
	return p, nil
}

// dependents counts references by entity name, skipping zero counts.
type dependents map[string]int

func (d dependents) add(entity string, n int) {
	if n > 0 {
		d[entity] += n
	}
}

func (d dependents) any() bool { return len(d) > 0 }
