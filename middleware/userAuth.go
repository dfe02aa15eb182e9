package middleware

import (
	"net/http"
	"strings"

	userRepo "slotwise/database/repository/user"
	"slotwise/models"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
)

func unauthorized(c *gin.Context, details string) {
	utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", details)
}

// bearerToken extracts the token, treating "" and the literal "null" as absent.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" || token == "null" {
		return "", false
	}
	return token, true
}

// JWTAuthMiddleware accepts only the most recently issued token of each user.
// The current token hash is read from cache, falling back to the user record on a miss.
func JWTAuthMiddleware(users userRepo.UserRepository, cache utils.TokenCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			unauthorized(c, "Invalid token")
			return
		}

		ctx := c.Request.Context()
		computedHash := utils.HashToken(tokenString)
		logger := utils.GetLogger()

		if cache != nil {
			cachedHash, found, err := cache.TokenHash(ctx, claims.UserID)
			switch {
			case err != nil:
				logger.Warn("Auth cache lookup failed, falling back to database", zap.Error(err))
			case found && cachedHash == computedHash:
				setIdentity(c, claims.UserID, claims.Username, models.Role(claims.Role))
				c.Next()
				return
			case found:
				unauthorized(c, "Token has been revoked")
				return
			}
		}

		usr, err := users.GetByID(ctx, claims.UserID)
		if err != nil {
			unauthorized(c, "Authentication error")
			return
		}
		if usr.TokenHash == "" || usr.TokenHash != computedHash {
			unauthorized(c, "Token has been revoked")
			return
		}

		if cache != nil {
			if err := cache.StoreTokenHash(ctx, usr.ID, computedHash); err != nil {
				logger.Warn("Failed to refill auth cache", zap.String("userID", usr.ID), zap.Error(err))
			}
			// A logout between the read and the refill would otherwise be undone.
			fresh, err := users.GetByID(ctx, usr.ID)
			if err != nil || fresh.TokenHash != computedHash {
				if err := cache.Revoke(ctx, usr.ID); err != nil {
					logger.Warn("Failed to drop stale auth cache entry", zap.String("userID", usr.ID), zap.Error(err))
				}
				unauthorized(c, "Token has been revoked")
				return
			}
			usr = fresh
		}
		setIdentity(c, usr.ID, usr.Username, usr.Role)
		c.Next()
	}
}

func setIdentity(c *gin.Context, userID, username string, role models.Role) {
	c.Set(ContextUserID, userID)
	c.Set(ContextUsername, username)
	c.Set(ContextRole, string(role))
}

// CurrentActor returns the identity set by JWTAuthMiddleware.
func CurrentActor(c *gin.Context) models.Actor {
	return models.Actor{
		UserID:   c.GetString(ContextUserID),
		Username: c.GetString(ContextUsername),
		Role:     models.Role(c.GetString(ContextRole)),
	}
}
