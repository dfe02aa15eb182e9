package user

import (
	"context"
	"time"

	appointmentRepo "slotwise/database/repository/appointment"
	availabilityRepo "slotwise/database/repository/availability"
	providerRepo "slotwise/database/repository/provider"
	userRepo "slotwise/database/repository/user"
	"slotwise/models"
	"slotwise/utils"
)

// UserService defines business logic for accounts and authentication.
type UserService interface {
	// Register creates a USER or PROVIDER account.
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	// Authenticate verifies credentials and issues a token, replacing any earlier one.
	Authenticate(ctx context.Context, username, password string) (*models.AuthResponse, error)
	// Logout revokes the user's current token.
	Logout(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	PageUsers(ctx context.Context, req models.PageRequest) (models.Page[models.User], error)
	// UpdateUser changes only the non-blank fields of req.
	UpdateUser(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error
	// DeleteUser removes the account, cancelling its bookings and removing its provider profile.
	DeleteUser(ctx context.Context, userID string) error
	CountUsers(ctx context.Context) (int64, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo           userRepo.UserRepository
	Providers      providerRepo.ProviderRepository
	Availabilities availabilityRepo.AvailabilityRepository
	Appointments   appointmentRepo.AppointmentRepository
	// Cache may be nil, in which case tokens are checked against the database only.
	Cache    utils.TokenCache
	TokenTTL time.Duration
}

const defaultTokenTTL = 24 * time.Hour

func (s *DefaultUserService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return defaultTokenTTL
}
