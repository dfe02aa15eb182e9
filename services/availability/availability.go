package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotwise/database/repository"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

const hasAppointment = "availability has an associated appointment"

func (s *DefaultAvailabilityService) profileOf(ctx context.Context, actor models.Actor) (*models.Provider, error) {
	p, err := s.Providers.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("Provider profile not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch provider profile", err)
	}
	return p, nil
}

func (s *DefaultAvailabilityService) load(ctx context.Context, id string) (*models.Availability, error) {
	slot, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("Availability not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch availability", err)
	}
	return slot, nil
}

// owned loads the slot and checks it belongs to the actor's profile.
func (s *DefaultAvailabilityService) owned(ctx context.Context, actor models.Actor, id string) (*models.Availability, error) {
	slot, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.Providers.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && p.ID != slot.ProviderID) {
		return nil, utils.Forbidden("You can only modify your own availabilities")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch provider profile", err)
	}
	return slot, nil
}

func (s *DefaultAvailabilityService) Create(ctx context.Context, actor models.Actor, req models.AvailabilityRequest) (*models.Availability, error) {
	p, err := s.profileOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !req.AvailableDate.After(s.now()) {
		return nil, utils.BadRequest("availableDate must be in the future")
	}

	slot := &models.Availability{
		ProviderID:      p.ID,
		AvailableDate:   req.AvailableDate,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.Repo.Create(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("An availability already exists at this time")
		}
		return nil, utils.Internal("Failed to create availability", err)
	}
	return slot, nil
}

// bulkSlots lays slots of slotMinutes from `from` while they end at or before `to`.
func bulkSlots(providerID string, from, to time.Time, slotMinutes int) ([]models.Availability, error) {
	step := time.Duration(slotMinutes) * time.Minute
	if step <= 0 {
		return nil, utils.BadRequest("slotMinutes must be positive")
	}
	count := int(to.Sub(from) / step)
	if count <= 0 {
		return nil, utils.BadRequest("Range is too short for a single slot")
	}
	if count > MaxBulkSlots {
		return nil, utils.BadRequest(fmt.Sprintf("At most %d slots can be generated per request", MaxBulkSlots))
	}
	slots := make([]models.Availability, 0, count)
	for i := 0; i < count; i++ {
		slots = append(slots, models.Availability{
			ProviderID:      providerID,
			AvailableDate:   from.Add(time.Duration(i) * step),
			DurationMinutes: slotMinutes,
		})
	}
	return slots, nil
}

func (s *DefaultAvailabilityService) CreateBulk(ctx context.Context, actor models.Actor, req models.BulkAvailabilityRequest) ([]models.Availability, error) {
	p, err := s.profileOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !req.From.After(s.now()) {
		return nil, utils.BadRequest("from must be in the future")
	}
	slots, err := bulkSlots(p.ID, req.From, req.To, req.SlotMinutes)
	if err != nil {
		return nil, err
	}
	created, err := s.Repo.CreateMany(ctx, slots)
	if err != nil {
		return nil, utils.Internal("Failed to create availabilities", err)
	}
	utils.GetLogger().Info("Bulk availabilities created",
		zap.String("providerID", p.ID), zap.Int("requested", len(slots)), zap.Int("created", len(created)))
	return created, nil
}

func (s *DefaultAvailabilityService) Get(ctx context.Context, id string) (*models.Availability, error) {
	return s.load(ctx, id)
}

func (s *DefaultAvailabilityService) ListAll(ctx context.Context) ([]models.Availability, error) {
	slots, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to fetch availabilities", err)
	}
	return slots, nil
}

func (s *DefaultAvailabilityService) ListFreeForProvider(ctx context.Context, providerID string) ([]models.Availability, error) {
	if _, err := s.Providers.GetByID(ctx, providerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Provider not found")
		}
		return nil, utils.Internal("Failed to fetch provider", err)
	}
	slots, err := s.Repo.ListByProvider(ctx, providerID, true, s.now())
	if err != nil {
		return nil, utils.Internal("Failed to fetch availabilities", err)
	}
	return slots, nil
}

// ListMine is empty for a provider that has not created a profile yet.
func (s *DefaultAvailabilityService) ListMine(ctx context.Context, actor models.Actor) ([]models.Availability, error) {
	p, err := s.Providers.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return []models.Availability{}, nil
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch provider profile", err)
	}
	slots, err := s.Repo.ListByProvider(ctx, p.ID, false, time.Time{})
	if err != nil {
		return nil, utils.Internal("Failed to fetch availabilities", err)
	}
	return slots, nil
}

func (s *DefaultAvailabilityService) Update(ctx context.Context, actor models.Actor, id string, req models.AvailabilityRequest) (*models.Availability, error) {
	slot, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if slot.Booked {
		return nil, utils.Conflict("Cannot modify a booked availability")
	}
	if !req.AvailableDate.After(s.now()) {
		return nil, utils.BadRequest("availableDate must be in the future")
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = slot.DurationMinutes
	}

	updated, err := s.Repo.Reschedule(ctx, slot.ID, slot.ProviderID, req.AvailableDate, duration, slot.Version)
	switch {
	case errors.Is(err, repository.ErrSlotUnavailable):
		return nil, utils.Conflict("Availability was booked or modified concurrently")
	case errors.Is(err, repository.ErrDuplicate):
		return nil, utils.Conflict("An availability already exists at this time")
	case err != nil:
		return nil, utils.Internal("Failed to update availability", err)
	}
	return updated, nil
}

func (s *DefaultAvailabilityService) Hold(ctx context.Context, actor models.Actor, id string) (*models.Availability, error) {
	slot, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	held, err := s.Repo.Hold(ctx, slot.ID, slot.ProviderID)
	if errors.Is(err, repository.ErrSlotUnavailable) {
		return nil, utils.Conflict("This time slot is already booked")
	}
	if err != nil {
		return nil, utils.Internal("Failed to book availability", err)
	}
	return held, nil
}

func (s *DefaultAvailabilityService) Delete(ctx context.Context, actor models.Actor, id string) error {
	slot, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if slot.Booked {
		return utils.Conflict(hasAppointment)
	}
	active, err := s.Appointments.HasActiveForAvailability(ctx, slot.ID)
	if err != nil {
		return utils.Internal("Failed to delete availability", err)
	}
	if active {
		return utils.Conflict(hasAppointment)
	}
	if err := s.Repo.DeleteFree(ctx, slot.ID, slot.ProviderID); err != nil {
		if errors.Is(err, repository.ErrSlotUnavailable) {
			return utils.Conflict(hasAppointment)
		}
		return utils.Internal("Failed to delete availability", err)
	}
	return nil
}
