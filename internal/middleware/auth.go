package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"tdc_backend/internal/auth"
	"tdc_backend/internal/logger"
	"tdc_backend/internal/models"
	"tdc_backend/internal/repositories"
	"tdc_backend/pkg/apperrors"
	"tdc_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TokenCookie carries the session token for browser clients.
const TokenCookie = "token"

// AuthMiddleware accepts a Bearer token or the token cookie and loads the
// BasicUser it names.
func AuthMiddleware(tokens *auth.TokenManager, users repositories.BasicUserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			apperrors.HandleError(c, apperrors.ErrTokenMissing)
			return
		}

		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Rejected token", "error", err.Error())
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		db, _ := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
		user, err := users.FindByID(db, claims.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrBasicUserNotFound) {
				apperrors.HandleError(c, apperrors.ErrUserNotFound)
				return
			}
			apperrors.HandleError(c, apperrors.DatabaseError(err))
			return
		}

		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Set(contextkeys.UserIDKey, user.ID)
		c.Set(contextkeys.BasicUserKey, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// AdminKeyMiddleware guards the review endpoints with a shared key.
func AdminKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader("X-Admin-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
			logger.CtxWarn(c.Request.Context(), "Admin access denied", "path", c.Request.URL.Path, "ip", c.ClientIP())
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied"))
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or "".
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// GetBasicUser returns the user loaded by AuthMiddleware.
func GetBasicUser(c *gin.Context) *models.BasicUser {
	if v, ok := c.Get(contextkeys.BasicUserKey); ok {
		if user, ok := v.(*models.BasicUser); ok {
			return user
		}
	}
	return nil
}
