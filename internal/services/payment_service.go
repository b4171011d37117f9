package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tdc_backend/internal/logger"
	"tdc_backend/internal/metrics"
	"tdc_backend/internal/models"
	"tdc_backend/internal/repositories"
	"tdc_backend/internal/services/dto"
	"tdc_backend/internal/services/gateway"
	"tdc_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PaymentService interface {
	CreateOrder(ctx context.Context, db *gorm.DB, userID string) (*dto.CreateOrderResponse, error)
	Verify(ctx context.Context, db *gorm.DB, req *dto.VerifyPaymentRequest) (*dto.PaymentResponse, error)
}

type paymentService struct {
	userRepo         repositories.BasicUserRepository
	registrationRepo repositories.RegistrationRepository
	paymentRepo      repositories.PaymentRepository
	gateway          gateway.OrderCreator
	keySecret        string
	currency         string
	metrics          *metrics.Metrics
}

func NewPaymentService(
	userRepo repositories.BasicUserRepository,
	registrationRepo repositories.RegistrationRepository,
	paymentRepo repositories.PaymentRepository,
	orders gateway.OrderCreator,
	keySecret, currency string,
	m *metrics.Metrics,
) PaymentService {
	return &paymentService{
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
		paymentRepo:      paymentRepo,
		gateway:          orders,
		keySecret:        keySecret,
		currency:         currency,
		metrics:          m,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, db *gorm.DB, userID string) (*dto.CreateOrderResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBasicUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	reg, err := s.registrationRepo.FindLatestByUser(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	if reg.RegCategory == nil {
		return nil, apperrors.ErrMissingCategory
	}

	amount, err := feeFor(reg.RegType, reg.RegCategory)
	if err != nil {
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   amount * 100,
		Currency: s.currency,
		Receipt:  fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
		Notes: map[string]string{
			"basic_user_id": user.ID,
			"regtype":       reg.RegType,
		},
	})
	if err != nil {
		s.metrics.IncPayment("gateway_error")
		return nil, apperrors.UpstreamError(err, "payment")
	}

	payment := &models.Payment{
		BasicUserID:     user.ID,
		PaymentCategory: reg.RegCategory.Name,
		PaymentType:     reg.RegType,
		Amount:          amount,
		Currency:        order.Currency,
		OrderID:         order.ID,
		PaymentStatus:   models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(db.WithContext(ctx), payment); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	s.metrics.IncPayment(strings.ToLower(string(models.PaymentStatusPending)))
	logger.CtxInfo(ctx, "Payment order created", "order_id", order.ID, "amount", amount)

	return &dto.CreateOrderResponse{
		Key:      s.gateway.KeyID(),
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		User: dto.CheckoutUser{
			Name:    user.FullName,
			Email:   user.Email,
			Contact: user.MobileNumber,
		},
	}, nil
}

// Verify settles a Pending payment once the callback signature checks out.
// A replay with the same payment id returns the settled record.
func (s *paymentService) Verify(ctx context.Context, db *gorm.DB, req *dto.VerifyPaymentRequest) (*dto.PaymentResponse, error) {
	if !gateway.VerifySignature(s.keySecret, req.OrderID, req.PaymentID, req.Signature) {
		s.metrics.IncPayment("invalid_signature")
		logger.CtxWarn(ctx, "Payment signature mismatch", "order_id", req.OrderID)
		return nil, apperrors.ErrInvalidSignature
	}

	db = db.WithContext(ctx)
	updated, err := s.paymentRepo.MarkSuccess(db, req.OrderID, req.PaymentID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	payment, err := s.paymentRepo.FindByOrderID(db, req.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !updated {
		if payment.PaymentID == nil || *payment.PaymentID != req.PaymentID {
			return nil, apperrors.ErrPaymentAlreadySettled
		}
		logger.CtxInfo(ctx, "Payment verification replayed", "order_id", req.OrderID)
		return dto.NewPaymentResponse(payment), nil
	}

	s.metrics.IncPayment(strings.ToLower(string(models.PaymentStatusSuccess)))
	logger.CtxInfo(ctx, "Payment verified", "order_id", req.OrderID, "payment_id", req.PaymentID)
	return dto.NewPaymentResponse(payment), nil
}

// feeFor picks the category fee by the registration type prefix.
func feeFor(regType string, category *models.RegistrationCategory) (int64, error) {
	t := strings.ToLower(strings.TrimSpace(regType))
	switch {
	case strings.HasPrefix(t, "regular"):
		return category.RegularAmount, nil
	case strings.HasPrefix(t, "tatkal"):
		return category.TatkalAmount, nil
	}
	return 0, apperrors.ErrInvalidRegistrationType
}
