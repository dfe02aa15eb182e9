package provider

import (
	"context"
	"errors"
	"io"

	"slotwise/database/repository"
	"slotwise/models"
	"slotwise/services/storage"
	"slotwise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultProviderService) CreateProfile(ctx context.Context, actor models.Actor, req models.ProviderProfileRequest) (*models.Provider, error) {
	if !actor.IsProvider() {
		return nil, utils.Forbidden("Only providers can create a provider profile")
	}
	if _, err := s.Repo.GetByUserID(ctx, actor.UserID); err == nil {
		return nil, utils.Conflict("Provider profile already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.Internal("Failed to create provider profile", err)
	}

	// Token claims can predate a rename; the stored user is authoritative.
	owner, err := s.Users.GetByID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("User not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to create provider profile", err)
	}

	p := &models.Provider{
		ID:       uuid.New().String(),
		UserID:   owner.ID,
		Username: owner.Username,
	}
	req.ApplyTo(p)
	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("Provider profile already exists")
		}
		return nil, utils.Internal("Failed to create provider profile", err)
	}
	utils.GetLogger().Info("Provider profile created", zap.String("providerID", p.ID), zap.String("userID", actor.UserID))
	return p, nil
}

// UpdateProfile replaces the editable fields; an empty profileImage keeps the uploaded one.
func (s *DefaultProviderService) UpdateProfile(ctx context.Context, actor models.Actor, providerID string, req models.ProviderProfileRequest) (*models.Provider, error) {
	p, err := s.load(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if p.UserID != actor.UserID {
		return nil, utils.Forbidden("You can only update your own provider profile")
	}

	image := p.ProfileImage
	req.ApplyTo(p)
	if p.ProfileImage == "" {
		p.ProfileImage = image
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Provider not found")
		}
		return nil, utils.Internal("Failed to update provider profile", err)
	}
	return s.withFreeSlots(ctx, p)
}

func (s *DefaultProviderService) UploadProfileImage(ctx context.Context, actor models.Actor, image io.Reader) (*models.Provider, error) {
	p, err := s.GetMine(ctx, actor)
	if err != nil {
		return nil, err
	}

	url, err := s.Images.UploadImage(ctx, image, p.ID)
	if errors.Is(err, storage.ErrStorageDisabled) {
		return nil, utils.ServiceUnavailable("Image storage is not configured")
	}
	if err != nil {
		return nil, utils.Internal("Failed to upload profile image", err)
	}
	if err := s.Repo.SetProfileImage(ctx, p.ID, url); err != nil {
		return nil, utils.Internal("Failed to store profile image", err)
	}
	p.ProfileImage = url
	return p, nil
}

// DeleteProvider refuses while appointments still hold the provider's slots.
// Otherwise every slot goes with the profile, held ones included.
func (s *DefaultProviderService) DeleteProvider(ctx context.Context, providerID string) error {
	if _, err := s.load(ctx, providerID); err != nil {
		return err
	}
	active, err := s.Appointments.HasActiveForProvider(ctx, providerID)
	if err != nil {
		return utils.Internal("Failed to delete provider", err)
	}
	if active {
		return utils.Conflict("Provider has active appointments")
	}
	if _, err := s.Availabilities.DeleteByProvider(ctx, providerID); err != nil {
		return utils.Internal("Failed to delete provider availabilities", err)
	}
	if err := s.Repo.Delete(ctx, providerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Provider not found")
		}
		return utils.Internal("Failed to delete provider", err)
	}
	utils.GetLogger().Info("Provider deleted", zap.String("providerID", providerID))
	return nil
}

func (s *DefaultProviderService) CountProviders(ctx context.Context) (int64, error) {
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return 0, utils.Internal("Failed to count providers", err)
	}
	return n, nil
}
