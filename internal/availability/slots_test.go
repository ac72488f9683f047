package availability

import (
	"testing"
	"time"
)

func clocks(slots []time.Time) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.UTC().Format("15:04")
	}
	return out
}

func equalClocks(t *testing.T, got []time.Time, want ...string) {
	t.Helper()
	g := clocks(got)
	if len(g) != len(want) {
		t.Fatalf("want %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("want %v, got %v", want, g)
		}
	}
}

func window(opens, closes string, brk ...string) *WorkingWindow {
	w := &WorkingWindow{OpensAt: MustTimeOfDay(opens), ClosesAt: MustTimeOfDay(closes)}
	if len(brk) == 2 {
		bs, be := MustTimeOfDay(brk[0]), MustTimeOfDay(brk[1])
		w.BreakStart, w.BreakEnd = &bs, &be
	}
	return w
}

func TestGenerateSlots_InclusiveClosingBoundary(t *testing.T) {
	day, _ := ParseDate("2026-10-19")
	slots := GenerateSlots(day, window("09:00", "12:00"), 60*time.Minute)
	equalClocks(t, slots, "09:00", "10:00", "11:00")
}

func TestGenerateSlots_BreakExcluded(t *testing.T) {
	day, _ := ParseDate("2026-10-19")
	slots := GenerateSlots(day, window("09:00", "12:00", "10:00", "10:30"), 30*time.Minute)
	equalClocks(t, slots, "09:00", "09:30", "10:30", "11:00", "11:30")
}

func TestGenerateSlots_NoPartialSlots(t *testing.T) {
	day, _ := ParseDate("2026-10-19")

	// 45-minute grid over 09:00-11:00: 09:45 ends 10:30, 10:30 would end 11:15.
	slots := GenerateSlots(day, window("09:00", "11:00"), 45*time.Minute)
	equalClocks(t, slots, "09:00", "09:45")

	// 40-minute grid with a 10:00-10:30 break: 09:40 and 10:20 both overlap it.
	slots = GenerateSlots(day, window("09:00", "12:00", "10:00", "10:30"), 40*time.Minute)
	equalClocks(t, slots, "09:00", "11:00")
}

func TestGenerateSlots_Degenerate(t *testing.T) {
	day, _ := ParseDate("2026-10-19")

	if got := GenerateSlots(day, window("09:00", "09:30"), 60*time.Minute); len(got) != 0 {
		t.Fatalf("window shorter than duration: want no slots, got %v", clocks(got))
	}
	if got := GenerateSlots(day, nil, 30*time.Minute); len(got) != 0 {
		t.Fatalf("nil window: want no slots, got %v", clocks(got))
	}
	if got := GenerateSlots(day, window("09:00", "12:00"), 0); len(got) != 0 {
		t.Fatalf("zero duration: want no slots, got %v", clocks(got))
	}
}

func TestGenerateSlots_Properties(t *testing.T) {
	day, _ := ParseDate("2026-10-19")
	w := window("08:15", "19:40", "12:05", "13:20")
	closes := w.ClosesAt.On(day)
	brk := Interval{Start: w.BreakStart.On(day), End: w.BreakEnd.On(day)}

	for _, minutes := range []int{5, 15, 25, 30, 45, 50, 60, 90, 120} {
		d := time.Duration(minutes) * time.Minute
		slots := GenerateSlots(day, w, d)
		for i, s := range slots {
			if s.Add(d).After(closes) {
				t.Fatalf("%dm: slot %s ends after closing", minutes, s.Format("15:04"))
			}
			if (Interval{Start: s, End: s.Add(d)}).Overlaps(brk) {
				t.Fatalf("%dm: slot %s overlaps the break", minutes, s.Format("15:04"))
			}
			if i > 0 && !s.After(slots[i-1]) {
				t.Fatalf("%dm: slots not strictly ascending at %d", minutes, i)
			}
		}
	}
}
