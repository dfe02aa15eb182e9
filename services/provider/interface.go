package provider

import (
	"context"
	"fmt"
	"io"
	"time"

	appointmentRepo "slotwise/database/repository/appointment"
	availabilityRepo "slotwise/database/repository/availability"
	providerRepo "slotwise/database/repository/provider"
	userRepo "slotwise/database/repository/user"
	"slotwise/models"
	"slotwise/services/storage"
)

type ProviderService interface {
	// Profile management
	CreateProfile(ctx context.Context, actor models.Actor, req models.ProviderProfileRequest) (*models.Provider, error)
	UpdateProfile(ctx context.Context, actor models.Actor, providerID string, req models.ProviderProfileRequest) (*models.Provider, error)
	UploadProfileImage(ctx context.Context, actor models.Actor, image io.Reader) (*models.Provider, error)
	DeleteProvider(ctx context.Context, providerID string) error

	// Lookup, each with free availabilities attached
	GetProvider(ctx context.Context, providerID string) (*models.Provider, error)
	GetByUsername(ctx context.Context, username string) (*models.Provider, error)
	GetMine(ctx context.Context, actor models.Actor) (*models.Provider, error)
	ListProviders(ctx context.Context) ([]models.Provider, error)
	PageProviders(ctx context.Context, req models.PageRequest) (models.Page[models.Provider], error)
	Search(ctx context.Context, field models.ProviderSearchField, term string) ([]models.Provider, error)
	SearchPage(ctx context.Context, field models.ProviderSearchField, term string, req models.PageRequest) (models.Page[models.Provider], error)

	CountProviders(ctx context.Context) (int64, error)
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo           providerRepo.ProviderRepository
	Users          userRepo.UserRepository
	Availabilities availabilityRepo.AvailabilityRepository
	Appointments   appointmentRepo.AppointmentRepository
	Images         storage.ImageStorage
	Now            func() time.Time
}

func NewDefaultProviderService(
	repo providerRepo.ProviderRepository,
	users userRepo.UserRepository,
	availabilities availabilityRepo.AvailabilityRepository,
	appointments appointmentRepo.AppointmentRepository,
	images storage.ImageStorage,
) (*DefaultProviderService, error) {
	if repo == nil || users == nil || availabilities == nil || appointments == nil {
		return nil, fmt.Errorf("provider service initialization error: one or more dependencies are nil")
	}
	if images == nil {
		images = storage.DisabledStorage{}
	}
	return &DefaultProviderService{
		Repo:           repo,
		Users:          users,
		Availabilities: availabilities,
		Appointments:   appointments,
		Images:         images,
		Now:            time.Now,
	}, nil
}

func (s *DefaultProviderService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
