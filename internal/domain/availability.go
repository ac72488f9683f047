package domain

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRequest mirrors GET /availability query parameters.
type AvailabilityRequest struct {
	Date            string `form:"date" binding:"required"`
	EmployeeID      string `form:"employeeId" binding:"required"`
	ServiceID       string `form:"serviceId" binding:"required"`
	EstablishmentID string `form:"establishmentId" binding:"required"`
}

type AvailabilityResponse struct {
	Items []time.Time `json:"items"`
}

// AvailabilityChanged tells dashboards that the free slots of an employee
// may have changed on Date ("YYYY-MM-DD", empty when every date may be
// affected).
type AvailabilityChanged struct {
	EstablishmentID uuid.UUID `json:"establishment_id"`
	EmployeeID      uuid.UUID `json:"employee_id"`
	Date            string    `json:"date,omitempty"`
	Reason          string    `json:"reason"`
	Timestamp       time.Time `json:"timestamp"`
}

const (
	ReasonAppointmentCreated    = "appointment.created"
	ReasonAppointmentCompleted  = "appointment.completed"
	ReasonAppointmentCanceled   = "appointment.canceled"
	ReasonBlockCreated          = "block.created"
	ReasonBlockDeleted          = "block.deleted"
	ReasonRecurringBlockCreated = "recurring_block.created"
	ReasonRecurringBlockDeleted = "recurring_block.deleted"
	ReasonWorkingHoursChanged   = "working_hours.changed"
)
