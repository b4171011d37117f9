package handlers

import "github.com/gin-gonic/gin"

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	CertificateHandlers []*CertificateHandler
	PaymentHandler      *PaymentHandler
	AdminHandler        *AdminHandler
}

// Middlewares are the per-route guards handlers attach to their groups.
type Middlewares struct {
	Auth   gin.HandlerFunc
	Upload gin.HandlerFunc
	Admin  gin.HandlerFunc
}
