package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/psycho-70/Eservice-frontend/internal/config"
	"github.com/psycho-70/Eservice-frontend/internal/handlers"
	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/middleware"
	"github.com/psycho-70/Eservice-frontend/internal/observability"
	"github.com/psycho-70/Eservice-frontend/internal/services"
	"github.com/psycho-70/Eservice-frontend/internal/session"
	"github.com/psycho-70/Eservice-frontend/internal/web"
)

func main() {
	// A missing .env is fine; the environment may already be populated
	envErr := godotenv.Load()

	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logging.Logger.Sync() }()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logging.Logger.Warn("failed to read .env file", zap.Error(envErr))
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	// Redis is optional and only backs the lookup rate limiter
	config.InitRedis()
	defer config.CloseRedis()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	api := services.NewAPIClient(cfg, logging.Logger)
	defer api.Close()

	forms := services.NewFormService(api, logging.Logger)
	cookies := session.Cookies{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SessionCookieSecure,
		MaxAge: cfg.SessionCookieMaxAge,
	}

	checks := map[string]handlers.HealthCheck{}
	if config.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return config.Redis.Ping(ctx).Err()
		}
	}

	portal := &handlers.Portal{
		Auth:      handlers.NewAuthHandlers(services.NewAuthService(api, logging.Logger), cookies),
		Dashboard: handlers.NewDashboardHandlers(forms),
		Forms:     handlers.NewFormHandlers(api, forms),
		Verify:    handlers.NewVerifyHandlers(api),
		Health:    handlers.NewHealthHandlers(checks),
	}
	if cfg.RateLimitEnabled {
		limiter := services.NewLookupLimiter(config.Redis, cfg.RateLimitPerMinute, logging.Logger)
		services.StartCleanup(ctx, limiter, cfg.RateLimitCleanupInterval, logging.Logger)
		portal.LookupLimiter = limiter
	}

	// Create router with middleware
	router := gin.New()
	router.SetHTMLTemplate(web.MustTemplates())
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		cors.Default(),
		middleware.SessionLoader(cookies),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	portal.Register(router)

	// Create server with timeouts; the upload route needs room for a 10MB body
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("api_base_url", cfg.APIBaseURL),
			zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logging.Logger.Info("server exited gracefully")
}
