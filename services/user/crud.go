package user

import (
	"context"
	"errors"
	"strings"

	"slotwise/database/repository"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

func (s *DefaultUserService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("User not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch user", err)
	}
	return user, nil
}

func (s *DefaultUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.loadUser(ctx, userID)
}

func (s *DefaultUserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to fetch users", err)
	}
	return users, nil
}

func (s *DefaultUserService) PageUsers(ctx context.Context, req models.PageRequest) (models.Page[models.User], error) {
	users, total, err := s.Repo.GetPage(ctx, req)
	if err != nil {
		return models.Page[models.User]{}, utils.Internal("Failed to fetch users", err)
	}
	return models.NewPage(users, req, total), nil
}

func (s *DefaultUserService) UpdateUser(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	renamed := false
	if username := strings.TrimSpace(req.Username); username != "" && username != user.Username {
		taken, err := s.Repo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, utils.Internal("Failed to update user", err)
		}
		if taken {
			return nil, utils.Conflict("Username already in use")
		}
		user.Username = username
		renamed = true
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != user.Email {
		taken, err := s.Repo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, utils.Internal("Failed to update user", err)
		}
		if taken {
			return nil, utils.Conflict("Email already in use")
		}
		user.Email = email
	}
	if strings.TrimSpace(req.Password) != "" {
		if err := utils.VerifyPasswordComplexity(req.Password); err != nil {
			return nil, utils.BadRequest(err.Error())
		}
		if user.PasswordHash, err = utils.HashPassword(req.Password); err != nil {
			return nil, utils.Internal("Failed to update user", err)
		}
	}

	if err := s.Repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("Username or email already in use")
		}
		return nil, utils.Internal("Failed to update user", err)
	}

	if renamed && s.Providers != nil {
		if err := s.Providers.SyncUsername(ctx, user.ID, user.Username); err != nil {
			utils.GetLogger().Error("Failed to propagate username to provider profile",
				zap.String("userID", user.ID), zap.Error(err))
		}
	}
	return user, nil
}

// DeleteUser cancels the user's active bookings and removes any provider profile before the account.
func (s *DefaultUserService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return err
	}

	active, err := s.Appointments.ListActiveByUser(ctx, userID)
	if err != nil {
		return utils.Internal("Failed to delete user", err)
	}
	for i := range active {
		if _, err := s.Appointments.TransitionStatus(ctx, &active[i], models.StatusCancelled); err != nil {
			utils.GetLogger().Warn("Failed to cancel appointment of deleted user",
				zap.String("appointmentID", active[i].ID), zap.Error(err))
		}
	}

	if err := s.deleteProviderProfile(ctx, userID); err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("User not found")
		}
		return utils.Internal("Failed to delete user", err)
	}
	if s.Cache != nil {
		_ = s.Cache.Revoke(ctx, userID)
	}
	utils.GetLogger().Info("User deleted", zap.String("userID", userID))
	return nil
}

func (s *DefaultUserService) deleteProviderProfile(ctx context.Context, userID string) error {
	profile, err := s.Providers.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return utils.Internal("Failed to delete provider profile", err)
	}

	booked, err := s.Appointments.ListByProvider(ctx, profile.ID)
	if err != nil {
		return utils.Internal("Failed to delete provider profile", err)
	}
	for i := range booked {
		if !booked[i].Status.Active() {
			continue
		}
		if _, err := s.Appointments.TransitionStatus(ctx, &booked[i], models.StatusCancelled); err != nil &&
			!errors.Is(err, repository.ErrStatusChanged) {
			utils.GetLogger().Error("Failed to cancel appointment of deleted provider",
				zap.String("appointmentID", booked[i].ID), zap.Error(err))
			return utils.Internal("Failed to delete provider profile", err)
		}
	}

	// No appointment is active any more, so none of the slots is referenced.
	if _, err := s.Availabilities.DeleteByProvider(ctx, profile.ID); err != nil {
		return utils.Internal("Failed to delete provider availabilities", err)
	}
	if err := s.Providers.Delete(ctx, profile.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return utils.Internal("Failed to delete provider profile", err)
	}
	return nil
}

func (s *DefaultUserService) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return 0, utils.Internal("Failed to count users", err)
	}
	return n, nil
}
