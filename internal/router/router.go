package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/chenoli/gostack-gobarber/internal/handler"
	appointmentHandler "github.com/chenoli/gostack-gobarber/internal/handler/appointment"
	passwordHandler "github.com/chenoli/gostack-gobarber/internal/handler/password"
	profileHandler "github.com/chenoli/gostack-gobarber/internal/handler/profile"
	providerHandler "github.com/chenoli/gostack-gobarber/internal/handler/provider"
	sessionHandler "github.com/chenoli/gostack-gobarber/internal/handler/session"
	userHandler "github.com/chenoli/gostack-gobarber/internal/handler/user"
	"github.com/chenoli/gostack-gobarber/internal/middleware"
)

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	appointmentH *appointmentHandler.Handler
	providerH    *providerHandler.Handler
	userH        *userHandler.Handler
	profileH     *profileHandler.Handler
	sessionH     *sessionHandler.Handler
	passwordH    *passwordHandler.Handler
	h            *handler.Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	appointmentH *appointmentHandler.Handler,
	providerH *providerHandler.Handler,
	userH *userHandler.Handler,
	profileH *profileHandler.Handler,
	sessionH *sessionHandler.Handler,
	passwordH *passwordHandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		appointmentH: appointmentH,
		providerH:    providerH,
		userH:        userH,
		profileH:     profileH,
		sessionH:     sessionH,
		passwordH:    passwordH,
		h:            h,
		metrics:      initRouterMetrics(),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		middleware.CORS(config.CORSConfig),
		r.metricsMiddleware(),
	)

	if config.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Setup registers all routes
func (r *Router) Setup() {
	r.engine.GET("/health", r.h.HealthCheck)
	r.engine.GET("/live", r.h.LivenessCheck)
	r.engine.GET("/metrics", r.h.MetricsHandler)

	public := r.engine.Group("/api/v1")
	r.userH.RegisterPublicRoutes(public)
	r.sessionH.RegisterRoutes(public)
	r.passwordH.RegisterRoutes(public)

	authed := r.engine.Group("/api/v1")
	authed.Use(r.auth.Authenticate())
	r.appointmentH.RegisterRoutes(authed)
	r.providerH.RegisterRoutes(authed)
	r.userH.RegisterRoutes(authed)
	r.profileH.RegisterRoutes(authed)
}

func initRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
