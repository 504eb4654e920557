package domain

import (
	"time"
)

const slotKeyLayout = "2006-01-02T15:04:05"

type Slot struct {
	Date           time.Time
	Start          time.Time
	Capacity       int
	AllocatedCount int
}

func (s *Slot) Key() string {
	return SlotKey(s.Start)
}

// SlotKey identifies a bin by its wall-clock start, without zone offset.
func SlotKey(t time.Time) string {
	return t.Truncate(time.Second).Format(slotKeyLayout)
}

func ParseSlotKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(slotKeyLayout, key, loc)
}

// DateOf strips the clock from t, keeping its location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
