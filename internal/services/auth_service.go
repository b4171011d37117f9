package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"tdc_backend/internal/auth"
	"tdc_backend/internal/email"
	"tdc_backend/internal/logger"
	"tdc_backend/internal/models"
	"tdc_backend/internal/repositories"
	"tdc_backend/internal/services/dto"
	"tdc_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const resetTokenTTL = 15 * time.Minute

type AuthService interface {
	Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, db *gorm.DB, token string, req *dto.ResetPasswordRequest) error
	Me(ctx context.Context, db *gorm.DB, userID string) (*dto.BasicUserResponse, error)
	TokenTTL() time.Duration
}

type authService struct {
	userRepo    repositories.BasicUserRepository
	tokens      *auth.TokenManager
	mailer      *email.Mailer
	frontendURL string
}

func NewAuthService(
	userRepo repositories.BasicUserRepository,
	tokens *auth.TokenManager,
	mailer *email.Mailer,
	frontendURL string,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (s *authService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *authService) Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	taken, err := s.userRepo.ExistsByEmail(db, req.Email)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	taken, err = s.userRepo.ExistsByMobile(db, req.MobileNumber)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if taken {
		return nil, apperrors.ErrMobileAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.BasicUser{
		FullName:              strings.TrimSpace(req.FullName),
		Email:                 req.Email,
		MobileNumber:          strings.TrimSpace(req.MobileNumber),
		PasswordHash:          hash,
		LastApplicationStatus: models.StatusPending,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, repositories.ErrBasicUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.DatabaseError(err)
	}

	if err := s.mailer.SendWelcome(ctx, user.Email, user.FullName, user.MobileNumber); err != nil {
		logger.CtxWithError(ctx, "Failed to send welcome email", err, "user_id", user.ID)
	}

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrBasicUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)
	return s.issue(user)
}

// ForgotPassword never reveals whether the address is registered.
func (s *authService) ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrBasicUserNotFound) {
			logger.CtxInfo(ctx, "Password reset requested for unknown email")
			return nil
		}
		return apperrors.DatabaseError(err)
	}

	token, err := generateResetToken()
	if err != nil {
		return apperrors.InternalError(err)
	}

	expires := time.Now().Add(resetTokenTTL)
	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"reset_password_token":  hashResetToken(token),
		"reset_password_expire": expires,
	})
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	resetURL := s.frontendURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FullName, resetURL, int(resetTokenTTL/time.Minute)); err != nil {
		logger.CtxWithError(ctx, "Failed to send password reset email", err, "user_id", user.ID)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, db *gorm.DB, token string, req *dto.ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return apperrors.ErrWeakPassword
	}
	if token == "" {
		return apperrors.ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByResetToken(db, req.Email, hashResetToken(token), time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrBasicUserNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return apperrors.DatabaseError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"password_hash":         hash,
		"reset_password_token":  "",
		"reset_password_expire": nil,
	})
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	if err := s.mailer.SendPasswordChanged(ctx, user.Email, user.FullName); err != nil {
		logger.CtxWithError(ctx, "Failed to send password changed email", err, "user_id", user.ID)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, db *gorm.DB, userID string) (*dto.BasicUserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBasicUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewBasicUserResponse(user), nil
}

func (s *authService) issue(user *models.BasicUser) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewBasicUserResponse(user),
	}, nil
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
