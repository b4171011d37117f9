package services

import (
	"tdc_backend/internal/auth"
	"tdc_backend/internal/email"
	"tdc_backend/internal/metrics"
	"tdc_backend/internal/repositories"
	"tdc_backend/internal/sequence"
	"tdc_backend/internal/services/gateway"
	"tdc_backend/internal/storage"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	RegistrationService RegistrationService
	GSCService          CertificateService
	NOCService          CertificateService
	PaymentService      PaymentService
	ReviewService       ReviewService
	ReferenceService    ReferenceService
}

// Dependencies are the infrastructure pieces the services are built from.
type Dependencies struct {
	Tokens        *auth.TokenManager
	Mailer        *email.Mailer
	Storage       storage.Storage
	Gateway       gateway.OrderCreator
	Metrics       *metrics.Metrics
	PaymentSecret string
	Currency      string
	FrontendURL   string
}

func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewBasicUserRepository()
	registrationRepo := repositories.NewRegistrationRepository()
	certRepo := repositories.NewCertificateRepository()
	paymentRepo := repositories.NewPaymentRepository()
	referenceRepo := repositories.NewReferenceRepository()
	seq := sequence.NewGenerator()

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, deps.Tokens, deps.Mailer, deps.FrontendURL),
		RegistrationService: NewRegistrationService(userRepo, registrationRepo, referenceRepo, deps.Storage, deps.Metrics),
		GSCService:          NewCertificateService(GSCKind, userRepo, certRepo, seq, deps.Storage, deps.Metrics),
		NOCService:          NewCertificateService(NOCKind, userRepo, certRepo, seq, deps.Storage, deps.Metrics),
		PaymentService:      NewPaymentService(userRepo, registrationRepo, paymentRepo, deps.Gateway, deps.PaymentSecret, deps.Currency, deps.Metrics),
		ReviewService:       NewReviewService(userRepo, registrationRepo, certRepo, seq),
		ReferenceService:    NewReferenceService(referenceRepo),
	}
}
