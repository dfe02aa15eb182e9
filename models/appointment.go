package models

import (
	"strings"
	"time"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// ParseAppointmentStatus accepts any letter case and surrounding quotes or spaces.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	st := AppointmentStatus(strings.ToUpper(strings.Trim(strings.TrimSpace(s), `"`)))
	switch st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, true
	}
	return "", false
}

// CanTransition reports whether an appointment may move from s to next.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active appointments hold their slot.
func (s AppointmentStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Appointment links a user, a provider and one of the provider's slots.
type Appointment struct {
	ID              string            `bson:"id" json:"id"`
	UserID          string            `bson:"userId" json:"userId"`
	ProviderID      string            `bson:"providerId" json:"providerId"`
	AvailabilityID  string            `bson:"availabilityId" json:"availabilityId"`
	AppointmentDate time.Time         `bson:"appointmentDate" json:"appointmentDate"`
	DurationMinutes int               `bson:"durationMinutes" json:"durationMinutes"`
	Status          AppointmentStatus `bson:"status" json:"status"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// EndsAt returns the instant the appointment is over.
func (a *Appointment) EndsAt() time.Time {
	d := a.DurationMinutes
	if d <= 0 {
		d = DefaultSlotMinutes
	}
	return a.AppointmentDate.Add(time.Duration(d) * time.Minute)
}

type BookAppointmentRequest struct {
	ProviderID     string `json:"providerId"`
	AvailabilityID string `json:"availabilityId"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,appointment_status"`
}
