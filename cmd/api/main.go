package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/chenoli/gostack-gobarber/internal/cache"
	"github.com/chenoli/gostack-gobarber/internal/cache/local"
	"github.com/chenoli/gostack-gobarber/internal/cache/rediscache"
	"github.com/chenoli/gostack-gobarber/internal/clock"
	"github.com/chenoli/gostack-gobarber/internal/config"
	"github.com/chenoli/gostack-gobarber/internal/email"
	"github.com/chenoli/gostack-gobarber/internal/handler"
	appointmentHandler "github.com/chenoli/gostack-gobarber/internal/handler/appointment"
	passwordHandler "github.com/chenoli/gostack-gobarber/internal/handler/password"
	profileHandler "github.com/chenoli/gostack-gobarber/internal/handler/profile"
	providerHandler "github.com/chenoli/gostack-gobarber/internal/handler/provider"
	sessionHandler "github.com/chenoli/gostack-gobarber/internal/handler/session"
	userHandler "github.com/chenoli/gostack-gobarber/internal/handler/user"
	"github.com/chenoli/gostack-gobarber/internal/middleware"
	"github.com/chenoli/gostack-gobarber/internal/repository/postgres"
	"github.com/chenoli/gostack-gobarber/internal/router"
	appointmentService "github.com/chenoli/gostack-gobarber/internal/service/appointment"
	notificationService "github.com/chenoli/gostack-gobarber/internal/service/notification"
	providerService "github.com/chenoli/gostack-gobarber/internal/service/provider"
	sessionService "github.com/chenoli/gostack-gobarber/internal/service/session"
	userService "github.com/chenoli/gostack-gobarber/internal/service/user"
	"github.com/chenoli/gostack-gobarber/internal/storage"
	"github.com/chenoli/gostack-gobarber/pkg/auth"
	"github.com/chenoli/gostack-gobarber/pkg/metrics"
	"github.com/chenoli/gostack-gobarber/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var cacheProvider cache.Provider
	if cfg.Redis.URL != "" {
		redisCache, err := rediscache.NewProvider(rediscache.Config{
			URL:          cfg.Redis.URL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisCache.Close()
		cacheProvider = redisCache
	} else {
		cacheProvider = local.NewProvider()
	}

	avatarStorage, err := storage.NewDiskProvider(cfg.Storage.AvatarDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize avatar storage")
	}

	appMetrics := metrics.NewMetrics("gobarber", "api")
	systemClock := clock.NewSystemClock()
	hasher := security.NewBcryptHasher(0)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	emailSvc := email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		ResetURL: cfg.SMTP.ResetURL,
	})

	appointmentRepo := postgres.NewAppointmentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)

	notifier := notificationService.NewService(notificationRepo, appMetrics)
	appointmentSvc := appointmentService.NewService(appointmentRepo, notifier, cacheProvider, systemClock, appMetrics)
	providerSvc := providerService.NewService(userRepo, cacheProvider, appMetrics)
	userSvc := userService.NewService(userRepo, tokenRepo, hasher, emailSvc, avatarStorage, cacheProvider, systemClock)
	sessionSvc := sessionService.NewService(userRepo, hasher, jwtSvc)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	routerConfig := router.Config{CORSConfig: middleware.DefaultCORSConfig()}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerConfig.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(
		authMiddleware,
		appointmentHandler.NewHandler(appointmentSvc),
		providerHandler.NewHandler(providerSvc, appointmentSvc),
		userHandler.NewHandler(userSvc),
		profileHandler.NewHandler(userSvc),
		sessionHandler.NewHandler(sessionSvc),
		passwordHandler.NewHandler(userSvc),
		handler.NewHandler(),
		routerConfig,
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
