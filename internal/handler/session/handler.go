package session

import (
	"github.com/gin-gonic/gin"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/service/session"
	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
	"github.com/chenoli/gostack-gobarber/pkg/httputil"
)

type Handler struct {
	service *session.Service
}

func NewHandler(service *session.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/sessions", h.CreateSession)
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	created, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, created)
}
