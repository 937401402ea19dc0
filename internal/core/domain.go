package core

import (
	"time"
)

// Entity names used in errors, log fields and change events.
const (
	EntityFarm        = "farm"
	EntityCrop        = "crop"
	EntityTask        = "task"
	EntityTransaction = "transaction"
	EntityWeather     = "weather"
)

const (
	Acres      AreaUnit = "acres"
	Hectares   AreaUnit = "hectares"
	SquareFeet AreaUnit = "sq ft"
	SquareMtrs AreaUnit = "sq m"
)

const (
	Seeds   CropUnit = "seeds"
	Plants  CropUnit = "plants"
	Pounds  CropUnit = "lbs"
	Kilos   CropUnit = "kg"
	Bushels CropUnit = "bushels"
	Acreage CropUnit = "acres"
	Rows    CropUnit = "rows"
)

const (
	Planted   CropStatus = "planted"
	Growing   CropStatus = "growing"
	Ready     CropStatus = "ready"
	Harvested CropStatus = "harvested"
)

const (
	Watering    TaskType = "watering"
	Fertilizing TaskType = "fertilizing"
	Harvesting  TaskType = "harvesting"
	Planting    TaskType = "planting"
	Weeding     TaskType = "weeding"
	Spraying    TaskType = "spraying"
	Maintenance TaskType = "maintenance"
	Inspection  TaskType = "inspection"
	OtherTask   TaskType = "other"
)

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

const (
	Pending   TaskStatus = "pending"
	Completed TaskStatus = "completed"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

type (
	AreaUnit        string
	CropUnit        string
	CropStatus      string
	TaskType        string
	Priority        string
	TaskStatus      string
	TransactionType string

	// Meta carries the store-assigned fields shared by every record.
	Meta struct {
		ID        int64     `json:"id"`
		Revision  int64     `json:"revision"`
		CreatedAt time.Time `json:"createdAt"`
	}

	Farm struct {
		Meta
		Name     string   `json:"name" validate:"notblank"`
		Size     float64  `json:"size" validate:"gt=0"`
		Unit     AreaUnit `json:"unit" validate:"enum"`
		Location string   `json:"location" validate:"notblank"`
	}

	Crop struct {
		Meta
		FarmID          int64      `json:"farmId" validate:"gt=0"`
		Name            string     `json:"name" validate:"notblank"`
		Variety         string     `json:"variety" validate:"notblank"`
		Quantity        float64    `json:"quantity" validate:"gt=0"`
		Unit            CropUnit   `json:"unit" validate:"enum"`
		PlantingDate    Date       `json:"plantingDate" validate:"required"`
		ExpectedHarvest Date       `json:"expectedHarvest" validate:"required"`
		Status          CropStatus `json:"status" validate:"enum"`
		Notes           string     `json:"notes,omitempty"`
	}

	Task struct {
		Meta
		FarmID      int64      `json:"farmId" validate:"gt=0"`
		CropID      *int64     `json:"cropId,omitempty" validate:"omitempty,gt=0"`
		Title       string     `json:"title" validate:"notblank"`
		Type        TaskType   `json:"type" validate:"enum"`
		Description string     `json:"description"`
		DueDate     Date       `json:"dueDate" validate:"required"`
		Priority    Priority   `json:"priority" validate:"enum"`
		Status      TaskStatus `json:"status" validate:"enum"`
		CompletedAt *time.Time `json:"completedAt,omitempty"`
	}

	Transaction struct {
		Meta
		FarmID      int64           `json:"farmId" validate:"gt=0"`
		CropID      *int64          `json:"cropId,omitempty" validate:"omitempty,gt=0"`
		Type        TransactionType `json:"type" validate:"enum"`
		Category    string          `json:"category" validate:"notblank"`
		Amount      Money           `json:"amount" validate:"gt=0"`
		Description string          `json:"description" validate:"notblank"`
		Date        Date            `json:"date" validate:"required"`
	}

	Temperature struct {
		Current float64 `json:"current"`
		High    float64 `json:"high"`
		Low     float64 `json:"low"`
	}

	// WeatherDay is keyed by its date rather than a numeric id.
	WeatherDay struct {
		Date          Date        `json:"date"`
		Condition     string      `json:"condition"`
		Temperature   Temperature `json:"temperature"`
		Precipitation int         `json:"precipitation"`
		Humidity      int         `json:"humidity"`
	}
)

func (u AreaUnit) Valid() bool {
	switch u {
	case Acres, Hectares, SquareFeet, SquareMtrs:
		return true
	}
	return false
}

func (u CropUnit) Valid() bool {
	switch u {
	case Seeds, Plants, Pounds, Kilos, Bushels, Acreage, Rows:
		return true
	}
	return false
}

func (s CropStatus) Valid() bool {
	switch s {
	case Planted, Growing, Ready, Harvested:
		return true
	}
	return false
}

func (t TaskType) Valid() bool {
	switch t {
	case Watering, Fertilizing, Harvesting, Planting, Weeding, Spraying, Maintenance, Inspection, OtherTask:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case Low, Medium, High:
		return true
	}
	return false
}

func (s TaskStatus) Valid() bool {
	return s == Pending || s == Completed
}

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

// Header exposes the shared record fields to generic stores.
func (m *Meta) Header() *Meta { return m }

func (f Farm) Clone() Farm { return f }

func (f Farm) Validate() error {
	return validateStruct(f)
}

func (c Crop) Clone() Crop { return c }

func (c Crop) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if !c.ExpectedHarvest.After(c.PlantingDate) {
		return fieldError("expectedHarvest", "must be after planting date")
	}
	return nil
}

// Defaults fills the status a new crop starts with.
func (c Crop) Defaults() Crop {
	if c.Status == "" {
		c.Status = Planted
	}
	return c
}

func (t Task) Clone() Task {
	t.CropID = cloneID(t.CropID)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

func (t Task) Validate() error {
	if err := validateStruct(t); err != nil {
		return err
	}
	if t.Status == Pending && t.CompletedAt != nil {
		return fieldError("completedAt", "must be empty while the task is pending")
	}
	return nil
}

func (t Task) Defaults() Task {
	if t.Status == "" {
		t.Status = Pending
	}
	if t.Priority == "" {
		t.Priority = Medium
	}
	if t.Type == "" {
		t.Type = OtherTask
	}
	return t
}

// IsOverdue reports whether a pending task was due before the day of now.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Status == Pending && t.DueDate.Before(DateOf(now))
}

// IsDueToday reports whether a pending task is due on the day of now.
func (t Task) IsDueToday(now time.Time) bool {
	return t.Status == Pending && t.DueDate.Equal(DateOf(now))
}

func (tx Transaction) Clone() Transaction {
	tx.CropID = cloneID(tx.CropID)
	return tx
}

func (tx Transaction) Validate() error {
	if err := validateStruct(tx); err != nil {
		return err
	}
	if !IsValidCategory(tx.Type, tx.Category) {
		return fieldError("category", "is not a valid "+string(tx.Type)+" category")
	}
	return nil
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
