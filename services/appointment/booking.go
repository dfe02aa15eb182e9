package appointment

import (
	"context"
	"errors"
	"strings"

	"slotwise/database/repository"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

const slotTaken = "This time slot is already booked"

// Book validates the slot and leaves the race to the repository's conditional update.
func (s *DefaultAppointmentService) Book(ctx context.Context, actor models.Actor, req models.BookAppointmentRequest) (*models.Appointment, error) {
	if actor.Role != models.RoleUser {
		return nil, utils.Forbidden("Only users can book appointments")
	}
	providerID := strings.TrimSpace(req.ProviderID)
	availabilityID := strings.TrimSpace(req.AvailabilityID)
	if providerID == "" || availabilityID == "" {
		return nil, utils.BadRequest("providerId and availabilityId are required")
	}

	if _, err := s.Providers.GetByID(ctx, providerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Provider not found")
		}
		return nil, utils.Internal("Failed to fetch provider", err)
	}
	slot, err := s.Availabilities.GetByID(ctx, availabilityID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("Availability not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch availability", err)
	}
	if slot.ProviderID != providerID {
		return nil, utils.BadRequest("Availability does not belong to this provider")
	}
	if slot.Booked {
		return nil, utils.Conflict(slotTaken)
	}
	if !slot.AvailableDate.After(s.now()) {
		return nil, utils.BadRequest("Cannot book a time slot in the past")
	}

	appt := &models.Appointment{
		UserID:          actor.UserID,
		ProviderID:      providerID,
		AvailabilityID:  slot.ID,
		AppointmentDate: slot.AvailableDate,
		DurationMinutes: slot.DurationMinutes,
	}
	if err := s.Repo.Book(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrSlotUnavailable) {
			return nil, utils.Conflict(slotTaken)
		}
		return nil, utils.Internal("Failed to book appointment", err)
	}

	utils.GetLogger().Info("Appointment booked",
		zap.String("appointmentID", appt.ID),
		zap.String("providerID", providerID),
		zap.String("availabilityID", slot.ID),
	)
	return appt, nil
}
