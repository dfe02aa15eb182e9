package dashboard

import (
	"context"
	"fmt"

	appointmentRepo "slotwise/database/repository/appointment"
	providerRepo "slotwise/database/repository/provider"
	userRepo "slotwise/database/repository/user"
	"slotwise/models"
)

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// DefaultDashboardService aggregates counts from the repositories.
type DefaultDashboardService struct {
	Users        userRepo.UserRepository
	Providers    providerRepo.ProviderRepository
	Appointments appointmentRepo.AppointmentRepository
}

// Stats counts upcoming appointments as those still PENDING.
func (s *DefaultDashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	var err error

	if stats.TotalProviders, err = s.Providers.Count(ctx); err != nil {
		return nil, fmt.Errorf("count providers: %w", err)
	}
	if stats.TotalAppointments, err = s.Appointments.Count(ctx); err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	if stats.UpcomingAppointments, err = s.Appointments.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, fmt.Errorf("count pending appointments: %w", err)
	}
	if stats.TotalUsers, err = s.Users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &stats, nil
}
