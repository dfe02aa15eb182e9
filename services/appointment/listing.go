package appointment

import (
	"context"

	"slotwise/models"
	"slotwise/utils"
)

func (s *DefaultAppointmentService) Get(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	return s.participant(ctx, actor, id, true)
}

func (s *DefaultAppointmentService) ListAll(ctx context.Context) ([]models.Appointment, error) {
	appts, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to fetch appointments", err)
	}
	return appts, nil
}

func (s *DefaultAppointmentService) PageAll(ctx context.Context, req models.PageRequest) (models.Page[models.Appointment], error) {
	appts, total, err := s.Repo.PageAll(ctx, req)
	if err != nil {
		return models.Page[models.Appointment]{}, utils.Internal("Failed to fetch appointments", err)
	}
	return models.NewPage(appts, req, total), nil
}

func (s *DefaultAppointmentService) ListForUser(ctx context.Context, actor models.Actor, userID string) ([]models.Appointment, error) {
	if err := canViewUser(actor, userID); err != nil {
		return nil, err
	}
	appts, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.Internal("Failed to fetch appointments", err)
	}
	return appts, nil
}

func (s *DefaultAppointmentService) PageForUser(ctx context.Context, actor models.Actor, userID string, req models.PageRequest) (models.Page[models.Appointment], error) {
	if err := canViewUser(actor, userID); err != nil {
		return models.Page[models.Appointment]{}, err
	}
	appts, total, err := s.Repo.PageByUser(ctx, userID, req)
	if err != nil {
		return models.Page[models.Appointment]{}, utils.Internal("Failed to fetch appointments", err)
	}
	return models.NewPage(appts, req, total), nil
}

func (s *DefaultAppointmentService) ListForProvider(ctx context.Context, actor models.Actor, providerID string) ([]models.Appointment, error) {
	if err := s.canViewProvider(ctx, actor, providerID); err != nil {
		return nil, err
	}
	appts, err := s.Repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, utils.Internal("Failed to fetch appointments", err)
	}
	return appts, nil
}

func (s *DefaultAppointmentService) PageForProvider(ctx context.Context, actor models.Actor, providerID string, req models.PageRequest) (models.Page[models.Appointment], error) {
	if err := s.canViewProvider(ctx, actor, providerID); err != nil {
		return models.Page[models.Appointment]{}, err
	}
	appts, total, err := s.Repo.PageByProvider(ctx, providerID, req)
	if err != nil {
		return models.Page[models.Appointment]{}, utils.Internal("Failed to fetch appointments", err)
	}
	return models.NewPage(appts, req, total), nil
}

func (s *DefaultAppointmentService) ListMine(ctx context.Context, actor models.Actor) ([]models.Appointment, error) {
	providerID, err := s.profileID(ctx, actor)
	if err != nil {
		return nil, err
	}
	if providerID == "" {
		return []models.Appointment{}, nil
	}
	appts, err := s.Repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, utils.Internal("Failed to fetch appointments", err)
	}
	return appts, nil
}

func (s *DefaultAppointmentService) PageMine(ctx context.Context, actor models.Actor, req models.PageRequest) (models.Page[models.Appointment], error) {
	providerID, err := s.profileID(ctx, actor)
	if err != nil {
		return models.Page[models.Appointment]{}, err
	}
	if providerID == "" {
		return models.NewPage([]models.Appointment{}, req, 0), nil
	}
	appts, total, err := s.Repo.PageByProvider(ctx, providerID, req)
	if err != nil {
		return models.Page[models.Appointment]{}, utils.Internal("Failed to fetch appointments", err)
	}
	return models.NewPage(appts, req, total), nil
}

func (s *DefaultAppointmentService) CountAppointments(ctx context.Context) (int64, error) {
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return 0, utils.Internal("Failed to count appointments", err)
	}
	return n, nil
}

func (s *DefaultAppointmentService) CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error) {
	n, err := s.Repo.CountByStatus(ctx, status)
	if err != nil {
		return 0, utils.Internal("Failed to count appointments", err)
	}
	return n, nil
}
