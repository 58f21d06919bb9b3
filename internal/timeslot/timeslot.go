// Package timeslot holds the interval arithmetic the booking engine relies
// on. Slots are half-open [start, end): a booking ending at 11:00 does not
// collide with one starting at 11:00.
package timeslot

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for booking dates.
const DateLayout = "2006-01-02"

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTime accepts "15:04" and "15:04:05" strings.
func ParseTime(s string) (TimeOfDay, error) {
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// FromClock converts a wall-clock instant to its time-of-day component.
func FromClock(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Minutes returns the raw minutes-since-midnight value.
func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the time as a Postgres TIME literal.
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()), nil
}

// Scan accepts TIME column values delivered as string, []byte or time.Time.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseTime(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseTime(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	case time.Time:
		*t = FromClock(v)
	case nil:
		*t = 0
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
	return nil
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching endpoints do not count as overlap.
func Overlaps(s1, e1, s2, e2 TimeOfDay) bool {
	return s1 < e2 && s2 < e1
}

// Duration returns the interval length in hours, e.g. 90 minutes -> 1.5.
func Duration(start, end TimeOfDay) float64 {
	return float64(end-start) / 60.0
}

// ParseDate validates a calendar date in DateLayout and normalizes it to
// midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// SameDate compares calendar dates ignoring the time and zone components.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// InPast reports whether the slot (date, start) has already begun relative
// to now. A slot on an earlier date is past; a slot today is past only if
// its start time is strictly before the current clock time, so a slot
// starting exactly now is still bookable.
func InPast(date time.Time, start TimeOfDay, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	slotDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if slotDay.Before(today) {
		return true
	}
	if slotDay.After(today) {
		return false
	}
	return start < FromClock(now)
}
