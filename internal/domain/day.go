package domain

import "fmt"

// Day identifies the event day (or the pickup category) a slot belongs to.
type Day string

const (
	DaySaturday Day = "Saturday"
	DaySunday   Day = "Sunday"
	DayPickup   Day = "Pickup"
)

func ParseDay(s string) (Day, error) {
	switch Day(s) {
	case DaySaturday, DaySunday, DayPickup:
		return Day(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

func (d Day) Valid() bool {
	switch d {
	case DaySaturday, DaySunday, DayPickup:
		return true
	}
	return false
}
