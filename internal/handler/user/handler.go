package user

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

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

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/users", h.CreateUser)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.PATCH("/users/avatar", h.UpdateAvatar)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	created, err := h.service.CreateUser(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, created)
}

func (h *Handler) UpdateAvatar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authenticated user"})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("avatar file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("%s%s", uuid.New(), filepath.Ext(fileHeader.Filename))

	updated, err := h.service.UpdateAvatar(c.Request.Context(), userID, filename, file)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, updated)
}
