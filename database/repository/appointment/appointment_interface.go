package appointmentRepo

import (
	"context"

	"slotwise/models"
)

type AppointmentRepository interface {
	// Book marks the slot booked and inserts appt in one transaction.
	// A slot that is already booked, or a lost write conflict, yields repository.ErrSlotUnavailable.
	Book(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListAll(ctx context.Context) ([]models.Appointment, error)
	PageAll(ctx context.Context, req models.PageRequest) ([]models.Appointment, int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	PageByUser(ctx context.Context, userID string, req models.PageRequest) ([]models.Appointment, int64, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Appointment, error)
	PageByProvider(ctx context.Context, providerID string, req models.PageRequest) ([]models.Appointment, int64, error)
	ListActiveByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	HasActiveForProvider(ctx context.Context, providerID string) (bool, error)
	HasActiveForAvailability(ctx context.Context, availabilityID string) (bool, error)
	// TransitionStatus moves appt from its current status to next, releasing the slot on cancellation.
	// It yields repository.ErrStatusChanged if the stored status no longer matches appt.Status.
	TransitionStatus(ctx context.Context, appt *models.Appointment, next models.AppointmentStatus) (*models.Appointment, error)
	// Delete removes appt and frees its slot if it was still active.
	Delete(ctx context.Context, appt *models.Appointment) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error)
}
