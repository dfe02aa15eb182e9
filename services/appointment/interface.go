package appointment

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "slotwise/database/repository/appointment"
	availabilityRepo "slotwise/database/repository/availability"
	providerRepo "slotwise/database/repository/provider"
	"slotwise/models"
	"slotwise/services/tasks"
)

type AppointmentService interface {
	// Book reserves a free slot for a USER.
	Book(ctx context.Context, actor models.Actor, req models.BookAppointmentRequest) (*models.Appointment, error)
	// Get is open to the booking user, the slot's provider and admins.
	Get(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error)
	ListAll(ctx context.Context) ([]models.Appointment, error)
	PageAll(ctx context.Context, req models.PageRequest) (models.Page[models.Appointment], error)
	ListForUser(ctx context.Context, actor models.Actor, userID string) ([]models.Appointment, error)
	PageForUser(ctx context.Context, actor models.Actor, userID string, req models.PageRequest) (models.Page[models.Appointment], error)
	ListForProvider(ctx context.Context, actor models.Actor, providerID string) ([]models.Appointment, error)
	PageForProvider(ctx context.Context, actor models.Actor, providerID string, req models.PageRequest) (models.Page[models.Appointment], error)
	// ListMine lists appointments against the caller's provider profile.
	ListMine(ctx context.Context, actor models.Actor) ([]models.Appointment, error)
	PageMine(ctx context.Context, actor models.Actor, req models.PageRequest) (models.Page[models.Appointment], error)

	UpdateStatus(ctx context.Context, actor models.Actor, id, status string) (*models.Appointment, error)
	Cancel(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error)
	Confirm(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
	// Complete finishes a confirmed appointment; anything else is left alone.
	Complete(ctx context.Context, id string) error

	CountAppointments(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error)
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Repo           appointmentRepo.AppointmentRepository
	Availabilities availabilityRepo.AvailabilityRepository
	Providers      providerRepo.ProviderRepository
	// Tasks receives completion jobs for confirmed appointments when AutoComplete is set.
	Tasks        tasks.Scheduler
	AutoComplete bool
	Now          func() time.Time
}

func NewDefaultAppointmentService(
	repo appointmentRepo.AppointmentRepository,
	availabilities availabilityRepo.AvailabilityRepository,
	providers providerRepo.ProviderRepository,
	scheduler tasks.Scheduler,
	autoComplete bool,
) (*DefaultAppointmentService, error) {
	if repo == nil || availabilities == nil || providers == nil {
		return nil, fmt.Errorf("appointment service initialization error: one or more dependencies are nil")
	}
	return &DefaultAppointmentService{
		Repo:           repo,
		Availabilities: availabilities,
		Providers:      providers,
		Tasks:          scheduler,
		AutoComplete:   autoComplete && scheduler != nil,
		Now:            time.Now,
	}, nil
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
