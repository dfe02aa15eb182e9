package appointment

import (
	"context"
	"errors"

	"slotwise/database/repository"
	"slotwise/models"
	"slotwise/utils"
)

// profileID returns the id of the actor's provider profile, or "" if there is none.
func (s *DefaultAppointmentService) profileID(ctx context.Context, actor models.Actor) (string, error) {
	if !actor.IsProvider() {
		return "", nil
	}
	p, err := s.Providers.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", utils.Internal("Failed to fetch provider profile", err)
	}
	return p.ID, nil
}

func (s *DefaultAppointmentService) ownsProvider(ctx context.Context, actor models.Actor, providerID string) (bool, error) {
	id, err := s.profileID(ctx, actor)
	if err != nil {
		return false, err
	}
	return id != "" && id == providerID, nil
}

func (s *DefaultAppointmentService) load(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("Appointment not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch appointment", err)
	}
	return appt, nil
}

// participant loads the appointment if the actor booked it or owns its provider.
// Admins pass when allowAdmin is set.
func (s *DefaultAppointmentService) participant(ctx context.Context, actor models.Actor, id string, allowAdmin bool) (*models.Appointment, error) {
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if (allowAdmin && actor.IsAdmin()) || appt.UserID == actor.UserID {
		return appt, nil
	}
	owns, err := s.ownsProvider(ctx, actor, appt.ProviderID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, utils.Forbidden("You do not have access to this appointment")
	}
	return appt, nil
}

func (s *DefaultAppointmentService) canViewProvider(ctx context.Context, actor models.Actor, providerID string) error {
	if actor.IsAdmin() {
		return nil
	}
	owns, err := s.ownsProvider(ctx, actor, providerID)
	if err != nil {
		return err
	}
	if !owns {
		return utils.Forbidden("You can only view appointments for your own provider profile")
	}
	return nil
}

func canViewUser(actor models.Actor, userID string) error {
	if actor.IsAdmin() || actor.UserID == userID {
		return nil
	}
	return utils.Forbidden("You can only view your own appointments")
}
