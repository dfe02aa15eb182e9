package provider

import (
	"context"
	"errors"

	"slotwise/database/repository"
	"slotwise/models"
	"slotwise/utils"
)

func (s *DefaultProviderService) load(ctx context.Context, providerID string) (*models.Provider, error) {
	p, err := s.Repo.GetByID(ctx, providerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("Provider not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch provider", err)
	}
	return p, nil
}

func (s *DefaultProviderService) withFreeSlots(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	free, err := s.Availabilities.ListByProvider(ctx, p.ID, true, s.now())
	if err != nil {
		return nil, utils.Internal("Failed to fetch provider availabilities", err)
	}
	p.Availabilities = free
	return p, nil
}

// attachFreeSlots loads the free slots of every provider in one query.
func (s *DefaultProviderService) attachFreeSlots(ctx context.Context, providers []models.Provider) ([]models.Provider, error) {
	ids := make([]string, len(providers))
	for i, p := range providers {
		ids[i] = p.ID
	}
	grouped, err := s.Availabilities.ListFreeByProviders(ctx, ids, s.now())
	if err != nil {
		return nil, utils.Internal("Failed to fetch provider availabilities", err)
	}
	for i := range providers {
		providers[i].Availabilities = grouped[providers[i].ID]
	}
	return providers, nil
}

func (s *DefaultProviderService) GetProvider(ctx context.Context, providerID string) (*models.Provider, error) {
	p, err := s.load(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return s.withFreeSlots(ctx, p)
}

func (s *DefaultProviderService) GetByUsername(ctx context.Context, username string) (*models.Provider, error) {
	p, err := s.Repo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("Provider not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch provider", err)
	}
	return s.withFreeSlots(ctx, p)
}

func (s *DefaultProviderService) GetMine(ctx context.Context, actor models.Actor) (*models.Provider, error) {
	p, err := s.Repo.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("Provider profile not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch provider profile", err)
	}
	return s.withFreeSlots(ctx, p)
}

func (s *DefaultProviderService) ListProviders(ctx context.Context) ([]models.Provider, error) {
	providers, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to fetch providers", err)
	}
	return s.attachFreeSlots(ctx, providers)
}

func (s *DefaultProviderService) PageProviders(ctx context.Context, req models.PageRequest) (models.Page[models.Provider], error) {
	providers, total, err := s.Repo.GetPage(ctx, req)
	if err != nil {
		return models.Page[models.Provider]{}, utils.Internal("Failed to fetch providers", err)
	}
	if providers, err = s.attachFreeSlots(ctx, providers); err != nil {
		return models.Page[models.Provider]{}, err
	}
	return models.NewPage(providers, req, total), nil
}

func (s *DefaultProviderService) Search(ctx context.Context, field models.ProviderSearchField, term string) ([]models.Provider, error) {
	providers, err := s.Repo.Search(ctx, field, term)
	if err != nil {
		return nil, utils.Internal("Failed to search providers", err)
	}
	return s.attachFreeSlots(ctx, providers)
}

func (s *DefaultProviderService) SearchPage(ctx context.Context, field models.ProviderSearchField, term string, req models.PageRequest) (models.Page[models.Provider], error) {
	providers, total, err := s.Repo.SearchPage(ctx, field, term, req)
	if err != nil {
		return models.Page[models.Provider]{}, utils.Internal("Failed to search providers", err)
	}
	if providers, err = s.attachFreeSlots(ctx, providers); err != nil {
		return models.Page[models.Provider]{}, err
	}
	return models.NewPage(providers, req, total), nil
}
