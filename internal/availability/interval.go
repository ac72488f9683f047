package availability

import "time"

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether a and b share at least one instant. Intervals
// that only touch at an endpoint do not overlap, so back-to-back bookings
// are allowed.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

func overlapsAny(iv Interval, obstructions []Obstruction) bool {
	for _, o := range obstructions {
		if iv.Overlaps(o.Interval) {
			return true
		}
	}
	return false
}
