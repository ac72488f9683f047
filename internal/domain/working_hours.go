package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkingHours is the opening window of an establishment for one weekday
// (0 = Sunday). Times of day are stored as "HH:MM:SS".
type WorkingHours struct {
	ID              uuid.UUID `json:"id"`
	EstablishmentID uuid.UUID `json:"establishment_id"`
	Weekday         int       `json:"weekday"`
	OpensAt         string    `json:"opens_at"`
	ClosesAt        string    `json:"closes_at"`
	BreakStart      *string   `json:"break_start,omitempty"`
	BreakEnd        *string   `json:"break_end,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UpsertWorkingHoursDTO struct {
	OpensAt    string  `json:"opens_at" binding:"required"`
	ClosesAt   string  `json:"closes_at" binding:"required"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
}
