package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-15", "2024-03-15", true},
		{"2024-03-15T18:30:00Z", "2024-03-15", true},
		{" 2024-12-01 ", "2024-12-01", true},
		{"15/03/2024", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var v struct {
		D Date `json:"d"`
		Z Date `json:"z"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2024-06-01","z":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !v.D.Equal(NewDate(2024, 6, 1)) || !v.Z.IsZero() {
		t.Fatalf("unexpected dates %v %v", v.D, v.Z)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"d":"2024-06-01","z":null}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func validFarm() Farm {
	return Farm{Name: "Green Valley", Size: 120, Unit: Acres, Location: "Iowa"}
}

func validCrop() Crop {
	return Crop{
		FarmID:          1,
		Name:            "Corn",
		Variety:         "Sweet",
		Quantity:        500,
		Unit:            Plants,
		PlantingDate:    NewDate(2024, 4, 1),
		ExpectedHarvest: NewDate(2024, 8, 1),
		Status:          Growing,
	}
}

func TestFarmValidate(t *testing.T) {
	if err := validFarm().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := map[string]func(*Farm){
		"name":     func(f *Farm) { f.Name = "   " },
		"size":     func(f *Farm) { f.Size = 0 },
		"unit":     func(f *Farm) { f.Unit = "furlongs" },
		"location": func(f *Farm) { f.Location = "" },
	}
	for field, mutate := range cases {
		f := validFarm()
		mutate(&f)
		err := f.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", field, err)
		}
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("%s: missing field in %v", field, verr.Fields)
		}
	}
}

func TestCropValidateHarvestAfterPlanting(t *testing.T) {
	c := validCrop()
	c.ExpectedHarvest = c.PlantingDate
	err := c.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["expectedHarvest"] == "" {
		t.Fatalf("expected expectedHarvest error, got %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCropValidateMissingDate(t *testing.T) {
	c := validCrop()
	c.PlantingDate = Date{}
	var verr *ValidationError
	if err := c.Validate(); !errors.As(err, &verr) || verr.Fields["plantingDate"] == "" {
		t.Fatalf("expected plantingDate error, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		FarmID:      1,
		Type:        Expense,
		Category:    "seeds",
		Amount:      Money{Cents: 10000},
		Description: "Corn seed",
		Date:        NewDate(2024, 3, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		func() Transaction { tx := good; tx.Amount = Money{}; return tx }(),
		func() Transaction { tx := good; tx.Amount = Money{Cents: -5}; return tx }(),
		func() Transaction { tx := good; tx.Category = "crop-sales"; return tx }(),
		func() Transaction { tx := good; tx.Description = ""; return tx }(),
		func() Transaction { tx := good; tx.Type = "gift"; return tx }(),
		func() Transaction { tx := good; tx.Date = Date{}; return tx }(),
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTaskOverdue(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	task := Task{Status: Pending, DueDate: NewDate(2024, 5, 9)}
	if !task.IsOverdue(now) {
		t.Fatalf("pending task due yesterday should be overdue")
	}
	task.Status = Completed
	if task.IsOverdue(now) {
		t.Fatalf("completed task should not be overdue")
	}

	today := Task{Status: Pending, DueDate: NewDate(2024, 5, 10)}
	if today.IsOverdue(now) || !today.IsDueToday(now) {
		t.Fatalf("task due today is due today, not overdue")
	}
}

func TestTaskValidateCompletedAtWhilePending(t *testing.T) {
	at := time.Now()
	task := Task{FarmID: 1, Title: "Water", Type: Watering, DueDate: NewDate(2024, 1, 1), Priority: Low, Status: Pending, CompletedAt: &at}
	if err := task.Validate(); err == nil {
		t.Fatalf("expected error for completedAt on pending task")
	}
}

func TestTaskCloneIsDeep(t *testing.T) {
	crop := int64(3)
	orig := Task{CropID: &crop}
	cp := orig.Clone()
	*cp.CropID = 9
	if *orig.CropID != 3 {
		t.Fatalf("clone shares cropId pointer")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFound(EntityTask, 5)
	if err.Error() != "task 5 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is ErrNotFound")
	}
}

func TestReferencedErrorMessage(t *testing.T) {
	err := &ReferencedError{Entity: EntityFarm, ID: 1, Dependents: map[string]int{"task": 2, "crop": 1}}
	if err.Error() != "farm 1 is referenced by 1 crop, 2 task" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
