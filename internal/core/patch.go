package core

import "time"

// Record is the constraint generic stores place on entity types.
type Record[T any] interface {
	*T
	Header() *Meta
	Validate() error
	Clone() T
}

// Patch is a partial update for records of type PT.
type Patch[PT any] interface {
	ApplyTo(PT) error
	Expected() *int64
}

// Patches use nil for "leave as is". Optional fields have a Clear flag to null them.
type (
	FarmPatch struct {
		ExpectedRevision *int64    `json:"expectedRevision,omitempty"`
		Name             *string   `json:"name,omitempty"`
		Size             *float64  `json:"size,omitempty"`
		Unit             *AreaUnit `json:"unit,omitempty"`
		Location         *string   `json:"location,omitempty"`
	}

	CropPatch struct {
		ExpectedRevision *int64      `json:"expectedRevision,omitempty"`
		FarmID           *int64      `json:"farmId,omitempty"`
		Name             *string     `json:"name,omitempty"`
		Variety          *string     `json:"variety,omitempty"`
		Quantity         *float64    `json:"quantity,omitempty"`
		Unit             *CropUnit   `json:"unit,omitempty"`
		PlantingDate     *Date       `json:"plantingDate,omitempty"`
		ExpectedHarvest  *Date       `json:"expectedHarvest,omitempty"`
		Status           *CropStatus `json:"status,omitempty"`
		Notes            *string     `json:"notes,omitempty"`
		ClearNotes       bool        `json:"clearNotes,omitempty"`
	}

	TaskPatch struct {
		ExpectedRevision *int64      `json:"expectedRevision,omitempty"`
		FarmID           *int64      `json:"farmId,omitempty"`
		CropID           *int64      `json:"cropId,omitempty"`
		ClearCropID      bool        `json:"clearCropId,omitempty"`
		Title            *string     `json:"title,omitempty"`
		Type             *TaskType   `json:"type,omitempty"`
		Description      *string     `json:"description,omitempty"`
		DueDate          *Date       `json:"dueDate,omitempty"`
		Priority         *Priority   `json:"priority,omitempty"`
		Status           *TaskStatus `json:"status,omitempty"`
		CompletedAt      *time.Time  `json:"completedAt,omitempty"`
		ClearCompletedAt bool        `json:"clearCompletedAt,omitempty"`
		// Now stamps completedAt when Status completes a task; zero means time.Now.
		Now time.Time `json:"-"`
	}

	TransactionPatch struct {
		ExpectedRevision *int64           `json:"expectedRevision,omitempty"`
		FarmID           *int64           `json:"farmId,omitempty"`
		CropID           *int64           `json:"cropId,omitempty"`
		ClearCropID      bool             `json:"clearCropId,omitempty"`
		Type             *TransactionType `json:"type,omitempty"`
		Category         *string          `json:"category,omitempty"`
		Amount           *Money           `json:"amount,omitempty"`
		Description      *string          `json:"description,omitempty"`
		Date             *Date            `json:"date,omitempty"`
	}
)

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setAndClear(field string) error {
	return fieldError(field, "cannot be set and cleared in the same update")
}

func (p FarmPatch) Expected() *int64  { return p.ExpectedRevision }
func (p *FarmPatch) Expect(rev int64) { p.ExpectedRevision = &rev }

func (p FarmPatch) ApplyTo(f *Farm) error {
	set(&f.Name, p.Name)
	set(&f.Size, p.Size)
	set(&f.Unit, p.Unit)
	set(&f.Location, p.Location)
	return nil
}

func (p CropPatch) Expected() *int64  { return p.ExpectedRevision }
func (p *CropPatch) Expect(rev int64) { p.ExpectedRevision = &rev }

func (p CropPatch) ApplyTo(c *Crop) error {
	if p.ClearNotes && p.Notes != nil {
		return setAndClear("notes")
	}
	set(&c.FarmID, p.FarmID)
	set(&c.Name, p.Name)
	set(&c.Variety, p.Variety)
	set(&c.Quantity, p.Quantity)
	set(&c.Unit, p.Unit)
	set(&c.PlantingDate, p.PlantingDate)
	set(&c.ExpectedHarvest, p.ExpectedHarvest)
	set(&c.Status, p.Status)
	set(&c.Notes, p.Notes)
	if p.ClearNotes {
		c.Notes = ""
	}
	return nil
}

func (p TaskPatch) Expected() *int64  { return p.ExpectedRevision }
func (p *TaskPatch) Expect(rev int64) { p.ExpectedRevision = &rev }

func (p TaskPatch) ApplyTo(t *Task) error {
	if p.ClearCropID && p.CropID != nil {
		return setAndClear("cropId")
	}
	if p.ClearCompletedAt && p.CompletedAt != nil {
		return setAndClear("completedAt")
	}
	set(&t.FarmID, p.FarmID)
	set(&t.Title, p.Title)
	set(&t.Type, p.Type)
	set(&t.Description, p.Description)
	set(&t.DueDate, p.DueDate)
	set(&t.Priority, p.Priority)
	set(&t.Status, p.Status)
	if p.CropID != nil {
		t.CropID = cloneID(p.CropID)
	}
	if p.ClearCropID {
		t.CropID = nil
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		t.CompletedAt = &at
	}
	if p.ClearCompletedAt {
		t.CompletedAt = nil
	}
	// a status change without an explicit completedAt keeps the stamp in step
	if p.Status != nil && p.CompletedAt == nil && !p.ClearCompletedAt {
		switch {
		case t.Status == Pending:
			t.CompletedAt = nil
		case t.Status == Completed && t.CompletedAt == nil:
			at := p.Now
			if at.IsZero() {
				at = time.Now()
			}
			t.CompletedAt = &at
		}
	}
	return nil
}

func (p TransactionPatch) Expected() *int64  { return p.ExpectedRevision }
func (p *TransactionPatch) Expect(rev int64) { p.ExpectedRevision = &rev }

func (p TransactionPatch) ApplyTo(tx *Transaction) error {
	if p.ClearCropID && p.CropID != nil {
		return setAndClear("cropId")
	}
	set(&tx.FarmID, p.FarmID)
	set(&tx.Type, p.Type)
	set(&tx.Category, p.Category)
	set(&tx.Amount, p.Amount)
	set(&tx.Description, p.Description)
	set(&tx.Date, p.Date)
	if p.CropID != nil {
		tx.CropID = cloneID(p.CropID)
	}
	if p.ClearCropID {
		tx.CropID = nil
	}
	return nil
}
