// Package labels maps record statuses to display badges.
package labels

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind selects the badge vocabulary.
type Kind string

const (
	KindCrop     Kind = "crop"
	KindTask     Kind = "task"
	KindPriority Kind = "priority"
)

type Badge struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Class string `json:"class"`
}

var badges = map[Kind]map[string]Badge{
	KindCrop: {
		"planted":   {Label: "Planted", Icon: "Sprout", Class: "status-planted"},
		"growing":   {Label: "Growing", Icon: "Leaf", Class: "status-growing"},
		"ready":     {Label: "Ready", Icon: "CheckCircle", Class: "status-ready"},
		"harvested": {Label: "Harvested", Icon: "Package", Class: "status-harvested"},
	},
	KindTask: {
		"pending":   {Label: "Pending", Icon: "Clock", Class: "status-pending"},
		"completed": {Label: "Completed", Icon: "CheckCircle2", Class: "status-completed"},
		"overdue":   {Label: "Overdue", Icon: "AlertCircle", Class: "status-overdue"},
	},
	KindPriority: {
		"low":    {Label: "Low", Icon: "ArrowDown", Class: "priority-low"},
		"medium": {Label: "Medium", Icon: "Minus", Class: "priority-medium"},
		"high":   {Label: "High", Icon: "ArrowUp", Class: "priority-high"},
	},
}

// fallbacks give the icon and class for values a kind does not know.
var fallbacks = map[Kind]Badge{
	KindCrop:     {Icon: "Circle", Class: "status-planted"},
	KindTask:     {Icon: "Circle", Class: "status-pending"},
	KindPriority: {Icon: "Minus", Class: "priority-medium"},
}

var defaultFallback = Badge{Icon: "Circle", Class: "status-planted"}

// For returns the badge of status within kind. Matching ignores case and it never fails.
func For(kind Kind, status string) Badge {
	if b, ok := badges[kind][strings.ToLower(strings.TrimSpace(status))]; ok {
		return b
	}
	b, ok := fallbacks[kind]
	if !ok {
		b = defaultFallback
	}
	b.Label = status
	if strings.TrimSpace(status) == "" {
		b.Label = "Unknown"
	}
	return b
}

var titleCaser = cases.Title(language.English)

// Title formats an enum value such as "sq ft" or "other" for display.
func Title(value string) string {
	return titleCaser.String(strings.ReplaceAll(value, "-", " "))
}
