package availability

import "testing"

func TestIntervalOverlaps(t *testing.T) {
	iv := func(from, to string) Interval {
		return Interval{Start: at("2026-10-19", from), End: at("2026-10-19", to)}
	}

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", iv("10:00", "10:30"), iv("10:00", "10:30"), true},
		{"partial", iv("10:00", "10:30"), iv("10:15", "10:45"), true},
		{"contained", iv("10:00", "11:00"), iv("10:15", "10:30"), true},
		{"ends when other starts", iv("10:00", "10:30"), iv("10:30", "11:00"), false},
		{"starts when other ends", iv("10:30", "11:00"), iv("10:00", "10:30"), false},
		{"disjoint", iv("09:00", "09:30"), iv("11:00", "11:30"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b): want %v, got %v", tt.want, got)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a): want %v, got %v", tt.want, got)
			}
		})
	}
}
