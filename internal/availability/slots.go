package availability

import "time"

// GenerateSlots returns every start instant on day, stepping by duration
// from opening time, whose [start, start+duration) fits before closing
// time and stays clear of the break. Slots are never shortened to fit.
func GenerateSlots(day time.Time, w *WorkingWindow, duration time.Duration) []time.Time {
	if w == nil || duration <= 0 {
		return nil
	}

	opens := w.OpensAt.On(day)
	closes := w.ClosesAt.On(day)

	var breakWindow *Interval
	if w.HasBreak() {
		breakWindow = &Interval{Start: w.BreakStart.On(day), End: w.BreakEnd.On(day)}
	}

	var slots []time.Time
	for current := opens; !current.Add(duration).After(closes); current = current.Add(duration) {
		if breakWindow != nil && (Interval{Start: current, End: current.Add(duration)}).Overlaps(*breakWindow) {
			continue
		}
		slots = append(slots, current)
	}
	return slots
}
