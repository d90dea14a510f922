package repo

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Date stores a time.Time as fixed-width RFC 3339 UTC text, which sorts chronologically.
type Date time.Time

const storedLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteTimestamp is the layout of CURRENT_TIMESTAMP defaults.
const sqliteTimestamp = "2006-01-02 15:04:05"

func NewDate(t time.Time) Date {
	return Date(t.UTC())
}

func (d Date) Value() (driver.Value, error) {
	return time.Time(d).UTC().Format(storedLayout), nil
}

func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = Date(time.Time{})
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case time.Time:
		*d = Date(v)
		return nil
	}

	return fmt.Errorf("cannot scan type %T into Date", value)
}

func (d *Date) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(sqliteTimestamp, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
	}
	*d = Date(t)
	return nil
}

func (d Date) String() string {
	return time.Time(d).UTC().Format(storedLayout)
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}
