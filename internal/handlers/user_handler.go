package handlers

import (
	"net/http"

	"tdc_backend/internal/middleware"
	"tdc_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler serves registration applications and the lookup lists the
// registration form needs.
type UserHandler struct {
	*BaseHandler
	registrationService services.RegistrationService
	referenceService    services.ReferenceService
	authHandler         *AuthHandler
}

func NewUserHandler(base *BaseHandler, registrationService services.RegistrationService, referenceService services.ReferenceService, authHandler *AuthHandler) *UserHandler {
	return &UserHandler{
		BaseHandler:         base,
		registrationService: registrationService,
		referenceService:    referenceService,
		authHandler:         authHandler,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, mw Middlewares) {
	users := rg.Group("/users")
	{
		users.POST("/register", mw.Auth, mw.Upload, h.Register)
		users.GET("/profile", mw.Auth, h.Profile)
		users.GET("/logout", h.authHandler.Logout)
		users.GET("/categories", h.Categories)
		users.GET("/nationalities", h.Nationalities)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	form := middleware.GetUploadForm(c)

	res, err := h.registrationService.Register(c.Request.Context(), h.GetDB(c), userID, form.Fields, form.Files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Success(c, http.StatusCreated, "Registration submitted", res)
}

func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.registrationService.Profile(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Success(c, http.StatusOK, "", profile)
}

func (h *UserHandler) Categories(c *gin.Context) {
	categories, err := h.referenceService.ListCategories(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, http.StatusOK, "", categories)
}

func (h *UserHandler) Nationalities(c *gin.Context) {
	nationalities, err := h.referenceService.ListNationalities(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, http.StatusOK, "", nationalities)
}
