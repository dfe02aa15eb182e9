package user

import (
	"context"
	"errors"
	"strings"

	"slotwise/database/repository"
	"slotwise/models"
	"slotwise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid username or password"

// Register validates the request, hashes the password and persists the account.
func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, utils.BadRequest("username, email and password are required")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, utils.BadRequest("Unknown role")
	}
	if role == models.RoleAdmin {
		return nil, utils.BadRequest("Admin accounts cannot be self-registered")
	}

	if err := utils.VerifyPasswordComplexity(req.Password); err != nil {
		return nil, utils.BadRequest(err.Error())
	}

	taken, err := s.Repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, utils.Internal("Failed to register user", err)
	}
	if taken {
		return nil, utils.BadRequest("Email already in use")
	}
	if taken, err = s.Repo.ExistsByUsername(ctx, username); err != nil {
		return nil, utils.Internal("Failed to register user", err)
	}
	if taken {
		return nil, utils.BadRequest("Username already in use")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.Internal("Failed to register user", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.BadRequest("Username or email already in use")
		}
		return nil, utils.Internal("Failed to register user", err)
	}

	utils.GetLogger().Info("User registered", zap.String("userID", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Authenticate checks the password and stores the hash of a freshly issued token.
func (s *DefaultUserService) Authenticate(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	user, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, utils.Internal("Failed to authenticate user", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, utils.Unauthorized(invalidCredentials)
	}

	token, err := utils.GenerateToken(user.ID, user.Username, string(user.Role), s.tokenTTL())
	if err != nil {
		return nil, utils.Internal("Failed to generate auth token", err)
	}
	hash := utils.HashToken(token)
	if err := s.Repo.SetTokenHash(ctx, user.ID, hash); err != nil {
		return nil, utils.Internal("Failed to store auth token", err)
	}
	if s.Cache != nil {
		if err := s.Cache.StoreTokenHash(ctx, user.ID, hash); err != nil {
			utils.GetLogger().Warn("Failed to cache token hash", zap.String("userID", user.ID), zap.Error(err))
		}
	}

	return &models.AuthResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

func (s *DefaultUserService) Logout(ctx context.Context, userID string) error {
	return s.revokeToken(ctx, userID)
}

func (s *DefaultUserService) revokeToken(ctx context.Context, userID string) error {
	if err := s.Repo.SetTokenHash(ctx, userID, ""); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("User not found")
		}
		return utils.Internal("Failed to revoke token", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Revoke(ctx, userID); err != nil {
			utils.GetLogger().Warn("Failed to evict cached token hash", zap.String("userID", userID), zap.Error(err))
		}
	}
	return nil
}

// ChangePassword requires the current password and revokes the active token on success.
func (s *DefaultUserService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return utils.Unauthorized("Current password is incorrect")
	}
	if err := utils.VerifyPasswordComplexity(req.NewPassword); err != nil {
		return utils.BadRequest(err.Error())
	}
	if user.PasswordHash, err = utils.HashPassword(req.NewPassword); err != nil {
		return utils.Internal("Failed to change password", err)
	}
	user.TokenHash = ""
	if err := s.Repo.Update(ctx, user); err != nil {
		return utils.Internal("Failed to change password", err)
	}
	return s.revokeToken(ctx, userID)
}
