package appointment

import (
	"context"
	"errors"
	"fmt"

	"slotwise/database/repository"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

func (s *DefaultAppointmentService) transition(ctx context.Context, appt *models.Appointment, next models.AppointmentStatus) (*models.Appointment, error) {
	if !appt.Status.CanTransition(next) {
		return nil, utils.Conflict(fmt.Sprintf("Cannot change appointment status from %s to %s", appt.Status, next))
	}
	updated, err := s.Repo.TransitionStatus(ctx, appt, next)
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil, utils.Conflict("Appointment status changed concurrently")
	}
	if err != nil {
		return nil, utils.Internal("Failed to update appointment status", err)
	}

	utils.GetLogger().Info("Appointment status changed",
		zap.String("appointmentID", appt.ID),
		zap.String("from", string(appt.Status)),
		zap.String("to", string(next)),
	)
	if next == models.StatusConfirmed && s.AutoComplete {
		if err := s.Tasks.ScheduleCompletion(ctx, updated); err != nil {
			utils.GetLogger().Error("Failed to schedule appointment completion",
				zap.String("appointmentID", updated.ID), zap.Error(err))
		}
	}
	return updated, nil
}

// UpdateStatus is reserved for the slot's provider and admins.
func (s *DefaultAppointmentService) UpdateStatus(ctx context.Context, actor models.Actor, id, status string) (*models.Appointment, error) {
	next, ok := models.ParseAppointmentStatus(status)
	if !ok {
		return nil, utils.BadRequest("Invalid appointment status")
	}
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		owns, err := s.ownsProvider(ctx, actor, appt.ProviderID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, utils.Forbidden("Only the appointment's provider can change its status")
		}
	}
	return s.transition(ctx, appt, next)
}

func (s *DefaultAppointmentService) Cancel(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	appt, err := s.participant(ctx, actor, id, false)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, appt, models.StatusCancelled)
}

func (s *DefaultAppointmentService) Confirm(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	appt, err := s.participant(ctx, actor, id, false)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, appt, models.StatusConfirmed)
}

func (s *DefaultAppointmentService) Delete(ctx context.Context, id string) error {
	appt, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Appointment not found")
		}
		return utils.Internal("Failed to delete appointment", err)
	}
	utils.GetLogger().Info("Appointment deleted", zap.String("appointmentID", id))
	return nil
}

func (s *DefaultAppointmentService) Complete(ctx context.Context, id string) error {
	appt, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load appointment %s: %w", id, err)
	}
	if appt.Status != models.StatusConfirmed {
		utils.GetLogger().Debug("Skipping completion", zap.String("appointmentID", id), zap.String("status", string(appt.Status)))
		return nil
	}
	_, err = s.Repo.TransitionStatus(ctx, appt, models.StatusCompleted)
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil
	}
	return err
}
