package availability

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "slotwise/database/repository/appointment"
	availabilityRepo "slotwise/database/repository/availability"
	providerRepo "slotwise/database/repository/provider"
	"slotwise/models"
)

// MaxBulkSlots bounds a single bulk generation request.
const MaxBulkSlots = 200

type AvailabilityService interface {
	Create(ctx context.Context, actor models.Actor, req models.AvailabilityRequest) (*models.Availability, error)
	// CreateBulk lays consecutive slots over the range, skipping starts already taken.
	CreateBulk(ctx context.Context, actor models.Actor, req models.BulkAvailabilityRequest) ([]models.Availability, error)
	Get(ctx context.Context, id string) (*models.Availability, error)
	ListAll(ctx context.Context) ([]models.Availability, error)
	// ListFreeForProvider returns the provider's unbooked future slots by date.
	ListFreeForProvider(ctx context.Context, providerID string) ([]models.Availability, error)
	ListMine(ctx context.Context, actor models.Actor) ([]models.Availability, error)
	// Update moves a free slot; the booked flag is never touched.
	Update(ctx context.Context, actor models.Actor, id string, req models.AvailabilityRequest) (*models.Availability, error)
	Hold(ctx context.Context, actor models.Actor, id string) (*models.Availability, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Repo         availabilityRepo.AvailabilityRepository
	Providers    providerRepo.ProviderRepository
	Appointments appointmentRepo.AppointmentRepository
	Now          func() time.Time
}

func NewDefaultAvailabilityService(
	repo availabilityRepo.AvailabilityRepository,
	providers providerRepo.ProviderRepository,
	appointments appointmentRepo.AppointmentRepository,
) (*DefaultAvailabilityService, error) {
	if repo == nil || providers == nil || appointments == nil {
		return nil, fmt.Errorf("availability service initialization error: one or more dependencies are nil")
	}
	return &DefaultAvailabilityService{Repo: repo, Providers: providers, Appointments: appointments, Now: time.Now}, nil
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
