package handlers

import (
	"net/http"

	"tdc_backend/internal/models"
	"tdc_backend/internal/services"
	"tdc_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminHandler records council decisions. Routes are guarded by the admin key.
type AdminHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewAdminHandler(base *BaseHandler, reviewService services.ReviewService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, mw Middlewares) {
	admin := rg.Group("/admin", mw.Admin)
	{
		admin.PATCH("/registrations/:id/status", h.ReviewRegistration)
		admin.PATCH("/certificates/:kind/:applicationNo/status", h.ReviewCertificate)
	}
}

func (h *AdminHandler) ReviewRegistration(c *gin.Context) {
	var req dto.ReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	reg, err := h.reviewService.ReviewRegistration(c.Request.Context(), h.GetDB(c), c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Success(c, http.StatusOK, "Registration status updated", reg)
}

func (h *AdminHandler) ReviewCertificate(c *gin.Context) {
	var req dto.ReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	kind := models.CertificateKind(c.Param("kind"))
	app, err := h.reviewService.ReviewCertificate(c.Request.Context(), h.GetDB(c), kind, c.Param("applicationNo"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Success(c, http.StatusOK, "Certificate status updated", app)
}
