package labels_test

import (
	"testing"

	"github.com/carlmjohnson/be"

	"farmhub/internal/labels"
)

func TestFor(t *testing.T) {
	tests := []struct {
		kind   labels.Kind
		status string
		label  string
		icon   string
	}{
		{labels.KindCrop, "planted", "Planted", "Sprout"},
		{labels.KindCrop, "GROWING", "Growing", "Leaf"},
		{labels.KindCrop, "ready", "Ready", "CheckCircle"},
		{labels.KindCrop, "harvested", "Harvested", "Package"},
		{labels.KindTask, "pending", "Pending", "Clock"},
		{labels.KindTask, "Completed", "Completed", "CheckCircle2"},
		{labels.KindTask, "overdue", "Overdue", "AlertCircle"},
		{labels.KindPriority, "low", "Low", "ArrowDown"},
		{labels.KindPriority, "medium", "Medium", "Minus"},
		{labels.KindPriority, "high", "High", "ArrowUp"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.status, func(t *testing.T) {
			b := labels.For(tt.kind, tt.status)
			be.Equal(t, tt.label, b.Label)
			be.Equal(t, tt.icon, b.Icon)
			be.Nonzero(t, b.Class)
		})
	}
}

func TestForUnknown(t *testing.T) {
	b := labels.For(labels.KindCrop, "wilting")
	be.Equal(t, "wilting", b.Label)
	be.Equal(t, "Circle", b.Icon)

	b = labels.For(labels.KindPriority, "")
	be.Equal(t, "Unknown", b.Label)
	be.Equal(t, "Minus", b.Icon)
	be.Equal(t, "priority-medium", b.Class)

	b = labels.For("livestock", "grazing")
	be.Equal(t, "grazing", b.Label)
	be.Equal(t, "Circle", b.Icon)
}

func TestTitle(t *testing.T) {
	be.Equal(t, "Sq Ft", labels.Title("sq ft"))
	be.Equal(t, "Other", labels.Title("other"))
}
