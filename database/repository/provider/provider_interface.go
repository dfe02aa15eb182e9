package providerRepo

import (
	"context"

	"slotwise/models"
)

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// Create inserts a profile; a second profile for the same user yields repository.ErrDuplicate.
	Create(ctx context.Context, provider *models.Provider) error
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	GetByUserID(ctx context.Context, userID string) (*models.Provider, error)
	GetByUsername(ctx context.Context, username string) (*models.Provider, error)
	GetAll(ctx context.Context) ([]models.Provider, error)
	GetPage(ctx context.Context, req models.PageRequest) ([]models.Provider, int64, error)
	// Search matches term case-insensitively against the selected field(s).
	Search(ctx context.Context, field models.ProviderSearchField, term string) ([]models.Provider, error)
	SearchPage(ctx context.Context, field models.ProviderSearchField, term string, req models.PageRequest) ([]models.Provider, int64, error)
	// Update replaces the stored profile with provider.
	Update(ctx context.Context, provider *models.Provider) error
	// SyncUsername copies a renamed user's username onto their profile.
	SyncUsername(ctx context.Context, userID, username string) error
	SetProfileImage(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
