// File: guidewizard/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guidewizard/config"
	"guidewizard/handlers"
	"guidewizard/middleware"
	"guidewizard/routes"
	"guidewizard/services/gateway"
	"guidewizard/services/session"
	"guidewizard/services/wizard"
	"guidewizard/utils"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.SetTokenSecret(config.AppConfig.JWTSecret)
	if config.AppConfig.StaticOTP != "" {
		logger.Warn("OTP validation uses the configured static code; do not run against production auth",
			zap.String("guide_api", config.AppConfig.GuideAPIBaseURL))
	}

	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(100))

	// Session store.
	var store session.Store
	switch config.AppConfig.SessionStore {
	case "redis":
		client, err := utils.GetSessionCacheClient()
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize session redis: %v", err)
		}
		store = session.NewRedisStore(client, config.AppConfig.SessionTTL)
		health.AddReadinessCheck("session-redis", utils.RedisPingCheck(client))
	default:
		store = session.NewMemoryStore(config.AppConfig.SessionTTL)
	}

	// Upstream guide API.
	guideAPI := gateway.NewGuideAPIClient(gateway.Options{
		BaseURL:    config.AppConfig.GuideAPIBaseURL,
		AreaCode:   config.AppConfig.AreaCode,
		StaticOTP:  config.AppConfig.StaticOTP,
		DeviceType: config.AppConfig.DeviceType,
		AppVersion: config.AppConfig.AppVersion,
		Timeout:    config.AppConfig.GatewayTimeout,
		Logger:     logger.Named("gateway"),
	})

	// services.
	wizardService := wizard.NewWizardService(guideAPI, store, logger.Named("wizard"))
	wizardHandler := handlers.NewWizardHandler(wizardService, config.AppConfig.MaxUploadBytes, config.AppConfig.SessionTTL)

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	router.MaxMultipartMemory = config.AppConfig.MaxUploadBytes

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(wizardHandler), config.AppConfig.CORSAllowedOrigin)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}
	healthSrv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.HealthPort,
		Handler: health,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()
	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Errorf("main: health server failed: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	_ = healthSrv.Shutdown(ctx)
	if utils.SessionCacheClient != nil {
		_ = utils.SessionCacheClient.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
