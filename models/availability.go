package models

import "time"

// DefaultSlotMinutes is used when a slot is created without a duration.
const DefaultSlotMinutes = 30

// Availability is a bookable slot published by a provider.
type Availability struct {
	ID              string    `bson:"id" json:"id"`
	ProviderID      string    `bson:"providerId" json:"providerId"`
	AvailableDate   time.Time `bson:"availableDate" json:"availableDate"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Booked          bool      `bson:"booked" json:"booked"`
	AppointmentID   string    `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	Version         int       `bson:"version" json:"version"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EndsAt returns the instant the slot is over.
func (a *Availability) EndsAt() time.Time {
	d := a.DurationMinutes
	if d <= 0 {
		d = DefaultSlotMinutes
	}
	return a.AvailableDate.Add(time.Duration(d) * time.Minute)
}

type AvailabilityRequest struct {
	AvailableDate   time.Time `json:"availableDate" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"omitempty,min=5,max=480"`
}

// BulkAvailabilityRequest asks for consecutive slots covering [From, To).
type BulkAvailabilityRequest struct {
	From        time.Time `json:"from" binding:"required"`
	To          time.Time `json:"to" binding:"required,gtfield=From"`
	SlotMinutes int       `json:"slotMinutes" binding:"required,min=5,max=480"`
}
