package services_test

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"tdc_backend/internal/models"
	"tdc_backend/internal/services/dto"
	"tdc_backend/internal/testutil"
	"tdc_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupRequest() *dto.SignupRequest {
	return &dto.SignupRequest{
		FullName:        "A B",
		Email:           "A@X.com",
		MobileNumber:    "9999999999",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
	}
}

func TestAuthService_Signup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.AuthService.Signup(ctx, env.db, signupRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, "A B", resp.User.FullName)
	assert.Nil(t, resp.User.MembershipID)

	claims, err := env.tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	var stored models.BasicUser
	require.NoError(t, env.db.First(&stored, "id = ?", resp.User.ID).Error)
	assert.NotEqual(t, "Secret1!", stored.PasswordHash)

	sent := env.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"a@x.com"}, sent[0].To)
}

func TestAuthService_SignupConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.AuthService.Signup(ctx, env.db, signupRequest())
	require.NoError(t, err)

	_, err = env.svc.AuthService.Signup(ctx, env.db, signupRequest())
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	req := signupRequest()
	req.Email = "other@x.com"
	_, err = env.svc.AuthService.Signup(ctx, env.db, req)
	assert.ErrorIs(t, err, apperrors.ErrMobileAlreadyExists)
}

func TestAuthService_SignupRejectsWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	req := signupRequest()
	req.Password, req.ConfirmPassword = "secret11", "secret11"
	_, err := env.svc.AuthService.Signup(context.Background(), env.db, req)
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	req = signupRequest()
	req.ConfirmPassword = "Secret2!"
	_, err = env.svc.AuthService.Signup(context.Background(), env.db, req)
	assert.ErrorIs(t, err, apperrors.ErrPasswordMismatch)
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{Email: "login@x.com"}, "Secret1!")

	resp, err := env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "LOGIN@x.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "login@x.com", Password: "Wrong1!x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "nobody@x.com", Password: "Secret1!"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

var resetLink = regexp.MustCompile(`http://portal\.test/reset-password/([0-9a-f]{64})`)

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{Email: "reset@x.com"}, "Secret1!")

	require.NoError(t, env.svc.AuthService.ForgotPassword(ctx, env.db, &dto.ForgotPasswordRequest{Email: "reset@x.com"}))

	sent := env.mail.Sent()
	require.Len(t, sent, 1)
	m := resetLink.FindStringSubmatch(sent[0].HTMLBody)
	require.Len(t, m, 2, "reset link missing from %q", sent[0].HTMLBody)
	token := m[1]

	var stored models.BasicUser
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, token, stored.ResetPasswordToken, "token must be stored hashed")
	require.NotNil(t, stored.ResetPasswordExpire)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *stored.ResetPasswordExpire, time.Minute)

	reset := &dto.ResetPasswordRequest{Email: "reset@x.com", Password: "Newpass1!", ConfirmPassword: "Newpass1!"}
	err := env.svc.AuthService.ResetPassword(ctx, env.db, strings.Repeat("a", 64), reset)
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	require.NoError(t, env.svc.AuthService.ResetPassword(ctx, env.db, token, reset))

	_, err = env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "reset@x.com", Password: "Newpass1!"})
	require.NoError(t, err)

	// single use
	err = env.svc.AuthService.ResetPassword(ctx, env.db, token, reset)
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
	assert.Len(t, env.mail.Sent(), 2)
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.AuthService.ForgotPassword(context.Background(), env.db, &dto.ForgotPasswordRequest{Email: "ghost@x.com"})
	require.NoError(t, err)
	assert.Empty(t, env.mail.Sent())
}

func TestAuthService_ResetPasswordExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{Email: "late@x.com"}, "Secret1!")

	require.NoError(t, env.svc.AuthService.ForgotPassword(ctx, env.db, &dto.ForgotPasswordRequest{Email: "late@x.com"}))
	token := resetLink.FindStringSubmatch(env.mail.Sent()[0].HTMLBody)[1]

	require.NoError(t, env.db.Model(&models.BasicUser{}).Where("id = ?", user.ID).
		Update("reset_password_expire", time.Now().Add(-time.Minute)).Error)

	err := env.svc.AuthService.ResetPassword(ctx, env.db, token,
		&dto.ResetPasswordRequest{Email: "late@x.com", Password: "Newpass1!", ConfirmPassword: "Newpass1!"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestAuthService_Me(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	me, err := env.svc.AuthService.Me(context.Background(), env.db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)

	_, err = env.svc.AuthService.Me(context.Background(), env.db, "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
