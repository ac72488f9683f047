package domain

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
)

// BlockingStatuses returns the appointment statuses that occupy an
// employee's time. Each call returns a new slice.
func BlockingStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusCompleted,
	}
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCanceled:
		return true
	}
	return false
}

type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	EstablishmentID uuid.UUID         `json:"establishment_id"`
	EmployeeID      uuid.UUID         `json:"employee_id"`
	ServiceID       uuid.UUID         `json:"service_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	Notes           string            `json:"notes"`
	StartsAt        time.Time         `json:"starts_at"`
	EndsAt          time.Time         `json:"ends_at"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type CreateAppointmentDTO struct {
	EstablishmentID uuid.UUID `json:"establishment_id" binding:"required"`
	EmployeeID      uuid.UUID `json:"employee_id" binding:"required"`
	ServiceID       uuid.UUID `json:"service_id" binding:"required"`
	Date            string    `json:"date" binding:"required"`
	Time            string    `json:"time" binding:"required"`
	CustomerName    string    `json:"customer_name" binding:"required"`
	CustomerPhone   string    `json:"customer_phone"`
	Notes           string    `json:"notes"`
}

type UpdateAppointmentStatusDTO struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=completed canceled"`
}

type AppointmentFilter struct {
	EstablishmentID uuid.UUID
	EmployeeID      *uuid.UUID
	Status          *AppointmentStatus
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
}
