package handlers

import (
	"net/http"

	"tdc_backend/internal/middleware"
	"tdc_backend/internal/models"
	"tdc_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// CertificateHandler exposes one certificate kind under /certificates/<code>.
type CertificateHandler struct {
	*BaseHandler
	service services.CertificateService
}

func NewCertificateHandler(base *BaseHandler, service services.CertificateService) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *CertificateHandler) RegisterRoutes(rg *gin.RouterGroup, mw Middlewares) {
	code := string(h.service.Kind().Code)

	group := rg.Group("/certificates/"+code, mw.Auth)
	{
		group.POST("/apply-"+code, mw.Upload, h.Apply)
		group.PUT("/apply-"+code+"/:applicationNo", mw.Upload, h.Update)
		group.GET("/"+code, h.List)
		group.GET("/"+code+"/:applicationNo", h.Get)
	}

	// the NOC portal still posts edits to the old path
	if h.service.Kind().Code == models.KindNOC {
		group.POST("/update-"+code+"/:applicationNo", mw.Upload, h.Update)
	}
}

func (h *CertificateHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	form := middleware.GetUploadForm(c)

	app, err := h.service.Apply(c.Request.Context(), h.GetDB(c), userID, form.Fields, form.Files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Success(c, http.StatusCreated, h.service.Kind().Label+" submitted successfully", app)
}

func (h *CertificateHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	form := middleware.GetUploadForm(c)

	app, err := h.service.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("applicationNo"), form.Fields, form.Files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Success(c, http.StatusOK, h.service.Kind().Label+" updated successfully", app)
}

func (h *CertificateHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.service.List(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Success(c, http.StatusOK, "", apps)
}

func (h *CertificateHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	app, err := h.service.Get(c.Request.Context(), h.GetDB(c), userID, c.Param("applicationNo"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Success(c, http.StatusOK, "", app)
}
