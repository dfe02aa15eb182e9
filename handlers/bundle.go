package handlers

import (
	userRepo "slotwise/database/repository/user"
	"slotwise/utils"
)

// HandlerBundle groups all endpoint handlers plus what the auth middleware needs.
type HandlerBundle struct {
	UserRepo   userRepo.UserRepository
	TokenCache utils.TokenCache

	Auth           *AuthHandler
	Users          *UserHandler
	Providers      *ProviderHandler
	Availabilities *AvailabilityHandler
	Appointments   *AppointmentHandler
	Dashboard      *DashboardHandler
	Health         *HealthHandler
}
