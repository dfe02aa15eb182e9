package userRepo

import (
	"context"

	"slotwise/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record. A taken username or email yields repository.ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsername retrieves a user by its username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// ExistsByEmail reports whether an account already uses email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByUsername reports whether an account already uses username.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	GetAll(ctx context.Context) ([]models.User, error)
	GetPage(ctx context.Context, req models.PageRequest) ([]models.User, int64, error)
	// Update modifies an existing user record.
	Update(ctx context.Context, user *models.User) error
	// SetTokenHash stores the hash of the user's current token; empty revokes it.
	SetTokenHash(ctx context.Context, id, tokenHash string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
