package validator

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	TimeLayoutFull = "15:04:05"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(FormatPhone(phone))
}

// ValidateDate accepts calendar dates in YYYY-MM-DD form only.
func ValidateDate(date string) bool {
	if len(date) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// ValidateTimeOfDay accepts HH:MM and HH:MM:SS, and 24:00 for end of day.
func ValidateTimeOfDay(value string) bool {
	if value == "24:00" || value == "24:00:00" {
		return true
	}
	if _, err := time.Parse(TimeLayout, value); err == nil {
		return len(value) == len(TimeLayout)
	}
	if _, err := time.Parse(TimeLayoutFull, value); err == nil {
		return len(value) == len(TimeLayoutFull)
	}
	return false
}

func ValidateWeekday(weekday int) bool {
	return weekday >= 0 && weekday <= 6
}

func ParseUUID(value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil || len(value) != 36 {
		return uuid.Nil, false
	}
	return id, true
}

// FormatPhone strips everything except digits and a leading plus.
func FormatPhone(phone string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, strings.TrimSpace(phone))

	if strings.HasPrefix(clean, "+") {
		return "+" + strings.ReplaceAll(clean[1:], "+", "")
	}
	return strings.ReplaceAll(clean, "+", "")
}

func FormatName(name string) string {
	parts := strings.Fields(name)
	for i, part := range parts {
		runes := []rune(strings.ToLower(part))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func SanitizeString(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || r == '&' || r == '"' || r == '\'' || r == '`' || r == ';' {
			return -1
		}
		return r
	}, s))
}
