package appointment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chenoli/gostack-gobarber/internal/middleware"
	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/service/appointment"
	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
	"github.com/chenoli/gostack-gobarber/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/appointments", h.CreateAppointment)
	r.GET("/appointments/me", h.ListMyAppointments)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authenticated user"})
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	result, err := h.service.CreateAppointment(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, result)
}

// ListMyAppointments returns the authenticated provider's appointments
// for one day
func (h *Handler) ListMyAppointments(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authenticated user"})
		return
	}

	year, month, day, err := dateParams(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	appointments, err := h.service.ListProviderAppointments(c.Request.Context(), userID, year, month, day)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}

func dateParams(c *gin.Context) (year, month, day int, err error) {
	year, err = strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, 0, err
	}
	month, err = strconv.Atoi(c.Query("month"))
	if err != nil {
		return 0, 0, 0, err
	}
	day, err = strconv.Atoi(c.Query("day"))
	if err != nil {
		return 0, 0, 0, err
	}
	return year, month, day, nil
}
