package availability

import (
	"errors"
	"fmt"

	"agenda/internal/domain"
)

var ErrInvalidWindow = errors.New("availability: invalid working window")

// WorkingWindow is the bookable part of one weekday: open to close,
// minus an optional break.
type WorkingWindow struct {
	OpensAt    TimeOfDay
	ClosesAt   TimeOfDay
	BreakStart *TimeOfDay
	BreakEnd   *TimeOfDay
}

func (w WorkingWindow) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil
}

func (w WorkingWindow) Validate() error {
	if w.OpensAt >= w.ClosesAt {
		return fmt.Errorf("%w: opens_at must be before closes_at", ErrInvalidWindow)
	}
	if (w.BreakStart == nil) != (w.BreakEnd == nil) {
		return fmt.Errorf("%w: break_start and break_end must be set together", ErrInvalidWindow)
	}
	if w.HasBreak() {
		bs, be := *w.BreakStart, *w.BreakEnd
		if bs < w.OpensAt || bs >= be || be > w.ClosesAt {
			return fmt.Errorf("%w: break must lie inside working hours", ErrInvalidWindow)
		}
	}
	return nil
}

// WindowFromHours converts stored working hours into a WorkingWindow.
func WindowFromHours(h domain.WorkingHours) (WorkingWindow, error) {
	var w WorkingWindow
	var err error

	if w.OpensAt, err = ParseTimeOfDay(h.OpensAt); err != nil {
		return WorkingWindow{}, err
	}
	if w.ClosesAt, err = ParseTimeOfDay(h.ClosesAt); err != nil {
		return WorkingWindow{}, err
	}
	if h.BreakStart != nil {
		bs, err := ParseTimeOfDay(*h.BreakStart)
		if err != nil {
			return WorkingWindow{}, err
		}
		w.BreakStart = &bs
	}
	if h.BreakEnd != nil {
		be, err := ParseTimeOfDay(*h.BreakEnd)
		if err != nil {
			return WorkingWindow{}, err
		}
		w.BreakEnd = &be
	}

	return w, nil
}
