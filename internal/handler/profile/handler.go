package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chenoli/gostack-gobarber/internal/middleware"
	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/service/user"
	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
	"github.com/chenoli/gostack-gobarber/pkg/httputil"
)

type Handler struct {
	service *user.Service
}

func NewHandler(service *user.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.ShowProfile)
	r.PUT("/profile", h.UpdateProfile)
}

func (h *Handler) ShowProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authenticated user"})
		return
	}

	profile, err := h.service.ShowProfile(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authenticated user"})
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, updated)
}
