package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tdc_backend/internal/auth"
	"tdc_backend/internal/config"
	"tdc_backend/internal/email"
	"tdc_backend/internal/handlers"
	"tdc_backend/internal/logger"
	"tdc_backend/internal/metrics"
	"tdc_backend/internal/middleware"
	"tdc_backend/internal/models"
	"tdc_backend/internal/repositories"
	"tdc_backend/internal/routes"
	"tdc_backend/internal/services"
	"tdc_backend/internal/services/gateway"
	"tdc_backend/internal/storage"
	"tdc_backend/internal/validator"
	"tdc_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	deps, err := buildDependencies(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = Bootstrap(ctx, gormDB, cfg)
	cancel()
	if err != nil {
		logger.Fatal("Startup checks failed", "error", err)
	}

	workers.NewResetTokenWorker(gormDB, repositories.NewBasicUserRepository(), time.Hour).Start(context.Background())

	ginRouter := SetupRouter(cfg, gormDB, deps)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// Bootstrap migrates the schema, seeds reference data and refuses to start
// when a stored category has no document set.
func Bootstrap(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if err := db.WithContext(ctx).AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	referenceService := services.NewReferenceService(repositories.NewReferenceRepository())
	if err := referenceService.Seed(ctx, db, cfg.Reference); err != nil {
		return err
	}
	return referenceService.CheckCategorySlots(ctx, db)
}

func buildDependencies(cfg *config.Config) (services.Dependencies, error) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return services.Dependencies{}, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	provider, err := email.NewProvider(email.Config{
		Provider:     cfg.Email.Provider,
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		ZeptoURL:     cfg.Email.ZeptoURL,
		ZeptoToken:   cfg.Email.ZeptoToken,
	})
	if err != nil {
		return services.Dependencies{}, fmt.Errorf("failed to initialize email provider: %w", err)
	}
	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return services.Dependencies{}, fmt.Errorf("failed to load email templates: %w", err)
	}
	logger.Info("Email provider initialized", "provider", cfg.Email.Provider)

	if cfg.Payment.KeyID == "" || cfg.Payment.KeySecret == "" {
		logger.Warn("Razorpay keys are not set; order creation will fail")
	}

	return services.Dependencies{
		Tokens:        auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Hour),
		Mailer:        email.NewMailer(provider, templates),
		Storage:       storageInstance,
		Gateway:       gateway.NewRazorpayClient(cfg.Payment.BaseURL, cfg.Payment.KeyID, cfg.Payment.KeySecret),
		Metrics:       metrics.New(),
		PaymentSecret: cfg.Payment.KeySecret,
		Currency:      cfg.Payment.Currency,
		FrontendURL:   cfg.FrontendURL,
	}, nil
}

// SetupRouter wires services, handlers and middleware onto a new engine.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, deps services.Dependencies) *gin.Engine {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	serviceContainer := services.NewServiceContainer(deps)
	appHandlers := initializeHandlers(cfg, serviceContainer)

	mw := handlers.Middlewares{
		Auth:   middleware.AuthMiddleware(deps.Tokens, repositories.NewBasicUserRepository()),
		Upload: middleware.UploadMiddleware(cfg.Upload.MaxSize),
		Admin:  middleware.AdminKeyMiddleware(cfg.AdminAPIKey),
	}

	ginRouter := initializeGinRouter(cfg, gormDB, deps.Metrics)

	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		ginRouter.Static("/files", local.BasePath())
	}
	ginRouter.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	ginRouter.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "TDC backend is running"})
	})

	routes.RegisterRoutes(ginRouter, appHandlers, mw)

	return ginRouter
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())
	authHandler := handlers.NewAuthHandler(baseHandler, services.AuthService, cfg.Server.Env == "production")

	return &handlers.AppHandlers{
		AuthHandler: authHandler,
		UserHandler: handlers.NewUserHandler(baseHandler, services.RegistrationService, services.ReferenceService, authHandler),
		CertificateHandlers: []*handlers.CertificateHandler{
			handlers.NewCertificateHandler(baseHandler, services.GSCService),
			handlers.NewCertificateHandler(baseHandler, services.NOCService),
		},
		PaymentHandler: handlers.NewPaymentHandler(baseHandler, services.PaymentService),
		AdminHandler:   handlers.NewAdminHandler(baseHandler, services.ReviewService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.FrontendURL))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.DBMiddleware(db))
	return router
}
