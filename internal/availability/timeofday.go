package availability

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate      = errors.New("availability: invalid date")
	ErrInvalidTimeOfDay = errors.New("availability: invalid time of day")
)

// TimeOfDay is an offset from midnight.
type TimeOfDay time.Duration

// EndOfDay is "24:00": valid as a closing time or the end of a block,
// never as a start.
const EndOfDay = TimeOfDay(24 * time.Hour)

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS", plus "24:00" and
// "24:00:00" for EndOfDay.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	if value == "24:00" || value == "24:00:00" {
		return EndOfDay, nil
	}

	var layout string
	switch len(value) {
	case len("15:04"):
		layout = "15:04"
	case len("15:04:05"):
		layout = "15:04:05"
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}

	return TimeOfDay(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second), nil
}

func MustTimeOfDay(value string) TimeOfDay {
	t, err := ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

// On anchors t onto the calendar day of day, in UTC.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(time.Duration(t))
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

// ParseDate parses YYYY-MM-DD into UTC midnight of that day.
func ParseDate(value string) (time.Time, error) {
	if len(value) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	day, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return day, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
