package provider

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/middleware"
	"github.com/chenoli/gostack-gobarber/internal/service/appointment"
	"github.com/chenoli/gostack-gobarber/internal/service/provider"
	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
	"github.com/chenoli/gostack-gobarber/pkg/httputil"
)

type Handler struct {
	providers    *provider.Service
	appointments *appointment.Service
}

func NewHandler(providers *provider.Service, appointments *appointment.Service) *Handler {
	return &Handler{providers: providers, appointments: appointments}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/providers", h.ListProviders)
	r.GET("/providers/:provider_id/month-availability", h.MonthAvailability)
	r.GET("/providers/:provider_id/day-availability", h.DayAvailability)
}

func (h *Handler) ListProviders(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authenticated user"})
		return
	}

	providers, err := h.providers.ListProviders(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, providers)
}

func (h *Handler) MonthAvailability(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("provider_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid provider ID"))
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httputil.RespondWithError(c, apperrors.Validation("invalid month"))
		return
	}

	availability, err := h.appointments.ListMonthAvailability(c.Request.Context(), providerID, year, month)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, availability)
}

func (h *Handler) DayAvailability(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("provider_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid provider ID"))
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httputil.RespondWithError(c, apperrors.Validation("invalid month"))
		return
	}
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil || day < 1 || day > 31 {
		httputil.RespondWithError(c, apperrors.Validation("invalid day"))
		return
	}

	availability, err := h.appointments.ListDayAvailability(c.Request.Context(), providerID, year, month, day)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, availability)
}
