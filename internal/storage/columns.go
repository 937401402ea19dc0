package storage

import (
	"fmt"
	"time"

	"farmhub/internal/core"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func textOf(src any) (string, bool, error) {
	switch v := src.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case []byte:
		return string(v), true, nil
	case time.Time:
		return v.Format(time.RFC3339Nano), true, nil
	}
	return "", false, fmt.Errorf("unsupported column type %T", src)
}

// dateText scans a YYYY-MM-DD column into a core.Date.
type dateText struct{ d *core.Date }

func (c dateText) Scan(src any) error {
	s, ok, err := textOf(src)
	if err != nil || !ok {
		*c.d = core.Date{}
		return err
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return err
	}
	*c.d = d
	return nil
}

// timeText scans an RFC 3339 column.
type timeText struct{ t *time.Time }

func (c timeText) Scan(src any) error {
	s, ok, err := textOf(src)
	if err != nil || !ok {
		*c.t = time.Time{}
		return err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*c.t = t
	return nil
}

// nullTimeText scans a nullable RFC 3339 column into a *time.Time.
type nullTimeText struct{ t **time.Time }

func (c nullTimeText) Scan(src any) error {
	if src == nil {
		*c.t = nil
		return nil
	}
	var t time.Time
	if err := (timeText{&t}).Scan(src); err != nil {
		return err
	}
	*c.t = &t
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// centsCol scans an integer cents column into core.Money.
type centsCol struct{ m *core.Money }

func (c centsCol) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		c.m.Cents = v
		return nil
	case nil:
		c.m.Cents = 0
		return nil
	}
	return fmt.Errorf("unsupported amount type %T", src)
}
