package services_test

import (
	"context"
	"errors"
	"testing"

	"tdc_backend/internal/models"
	"tdc_backend/internal/services/dto"
	"tdc_backend/internal/services/gateway"
	"tdc_backend/internal/testutil"
	"tdc_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registeredUser(t *testing.T, env *testEnv, regType string) *models.BasicUser {
	t.Helper()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{FullName: "Asha Rao", Email: "asha@x.com", MobileNumber: "9876543210"}, "")
	category, nationality := testutil.SeedReference(t, env.db, "BDS", 5000, 10000)
	fields := registrationFields(category.ID, nationality.ID)
	fields["regtype"] = regType
	_, err := env.svc.RegistrationService.Register(context.Background(), env.db, user.ID, fields, bdsFiles(t))
	require.NoError(t, err)
	return user
}

func TestPaymentService_CreateOrder(t *testing.T) {
	tests := []struct {
		regType string
		amount  int64
	}{
		{"Regular", 5000},
		{"regular registration", 5000},
		{"TATKAL", 10000},
	}
	for _, tt := range tests {
		t.Run(tt.regType, func(t *testing.T) {
			env := newTestEnv(t)
			user := registeredUser(t, env, tt.regType)

			order, err := env.svc.PaymentService.CreateOrder(context.Background(), env.db, user.ID)
			require.NoError(t, err)

			assert.Equal(t, "rzp_test_key", order.Key)
			assert.Equal(t, tt.amount*100, order.Amount)
			assert.Equal(t, "INR", order.Currency)
			assert.Equal(t, dto.CheckoutUser{Name: "Asha Rao", Email: "asha@x.com", Contact: "9876543210"}, order.User)

			require.Len(t, env.gateway.Requests, 1)
			assert.Regexp(t, `^receipt_\d+$`, env.gateway.Requests[0].Receipt)

			var payment models.Payment
			require.NoError(t, env.db.First(&payment, "order_id = ?", order.OrderID).Error)
			assert.Equal(t, tt.amount, payment.Amount)
			assert.Equal(t, models.PaymentStatusPending, payment.PaymentStatus)
			assert.Equal(t, "BDS", payment.PaymentCategory)
			assert.Nil(t, payment.PaymentID)
		})
	}
}

func TestPaymentService_CreateOrderFailures(t *testing.T) {
	t.Run("invalid registration type", func(t *testing.T) {
		env := newTestEnv(t)
		user := registeredUser(t, env, "Express")
		_, err := env.svc.PaymentService.CreateOrder(context.Background(), env.db, user.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRegistrationType)
		assert.Empty(t, env.gateway.Requests)
	})

	t.Run("no registration", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")
		_, err := env.svc.PaymentService.CreateOrder(context.Background(), env.db, user.ID)
		assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
	})

	t.Run("gateway down", func(t *testing.T) {
		env := newTestEnv(t)
		user := registeredUser(t, env, "Regular")
		env.gateway.Err = errors.New("connection refused")

		_, err := env.svc.PaymentService.CreateOrder(context.Background(), env.db, user.ID)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 500, appErr.HTTPCode)
		assert.NotContains(t, appErr.Message, "connection refused")

		var count int64
		require.NoError(t, env.db.Model(&models.Payment{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestPaymentService_Verify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registeredUser(t, env, "Regular")

	order, err := env.svc.PaymentService.CreateOrder(ctx, env.db, user.ID)
	require.NoError(t, err)

	bad := &dto.VerifyPaymentRequest{OrderID: order.OrderID, PaymentID: "pay_1", Signature: gateway.Sign("wrong", order.OrderID, "pay_1")}
	_, err = env.svc.PaymentService.Verify(ctx, env.db, bad)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)

	var payment models.Payment
	require.NoError(t, env.db.First(&payment, "order_id = ?", order.OrderID).Error)
	assert.Equal(t, models.PaymentStatusPending, payment.PaymentStatus, "no state change on mismatch")

	good := &dto.VerifyPaymentRequest{OrderID: order.OrderID, PaymentID: "pay_1", Signature: gateway.Sign(paymentSecret, order.OrderID, "pay_1")}
	res, err := env.svc.PaymentService.Verify(ctx, env.db, good)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, res.PaymentStatus)
	require.NotNil(t, res.PaymentID)
	assert.Equal(t, "pay_1", *res.PaymentID)

	// gateway retries the callback
	res, err = env.svc.PaymentService.Verify(ctx, env.db, good)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, res.PaymentStatus)

	other := &dto.VerifyPaymentRequest{OrderID: order.OrderID, PaymentID: "pay_2", Signature: gateway.Sign(paymentSecret, order.OrderID, "pay_2")}
	_, err = env.svc.PaymentService.Verify(ctx, env.db, other)
	assert.ErrorIs(t, err, apperrors.ErrPaymentAlreadySettled)
}

func TestPaymentService_VerifyUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	req := &dto.VerifyPaymentRequest{OrderID: "order_ghost", PaymentID: "pay_1", Signature: gateway.Sign(paymentSecret, "order_ghost", "pay_1")}
	_, err := env.svc.PaymentService.Verify(context.Background(), env.db, req)
	assert.ErrorIs(t, err, apperrors.ErrPaymentNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}
