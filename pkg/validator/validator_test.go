package validator

import "testing"

func TestValidateDate(t *testing.T) {
	cases := map[string]bool{
		"2026-10-18": true,
		"2026-02-29": false,
		"2026-1-5":   false,
		"18.10.2026": false,
		"":           false,
	}
	for in, want := range cases {
		if got := ValidateDate(in); got != want {
			t.Errorf("ValidateDate(%q): want %v, got %v", in, want, got)
		}
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	cases := map[string]bool{
		"09:00":    true,
		"23:59:59": true,
		"9:00":     false,
		"24:00":    true,
		"24:00:01": false,
		"24:30":    false,
		"09:60":    false,
		"morning":  false,
	}
	for in, want := range cases {
		if got := ValidateTimeOfDay(in); got != want {
			t.Errorf("ValidateTimeOfDay(%q): want %v, got %v", in, want, got)
		}
	}
}

func TestParseUUID(t *testing.T) {
	if _, ok := ParseUUID("3f0b6c1e-8a4d-4e43-9d8b-2b8f2f7c1a10"); !ok {
		t.Error("want valid uuid")
	}
	for _, in := range []string{"", "42", "3f0b6c1e8a4d4e439d8b2b8f2f7c1a10", "urn:uuid:3f0b6c1e-8a4d-4e43-9d8b-2b8f2f7c1a10"} {
		if _, ok := ParseUUID(in); ok {
			t.Errorf("ParseUUID(%q): want invalid", in)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	cases := map[string]string{
		"+55 (11) 98765-4321": "+5511987654321",
		"11 98765 4321":       "11987654321",
		"+1+2":                "+12",
	}
	for in, want := range cases {
		if got := FormatPhone(in); got != want {
			t.Errorf("FormatPhone(%q): want %q, got %q", in, want, got)
		}
	}
	if !ValidatePhone("+55 (11) 98765-4321") {
		t.Error("want valid phone")
	}
	if ValidatePhone("123") {
		t.Error("want short phone rejected")
	}
}

func TestFormatName(t *testing.T) {
	if got := FormatName("  maria  da SILVA "); got != "Maria Da Silva" {
		t.Errorf("FormatName: got %q", got)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString(" <b>cut</b>; "); got != "bcut/b" {
		t.Errorf("SanitizeString: got %q", got)
	}
}
