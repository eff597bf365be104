package routes

import (
	"strings"
	"time"

	"guidewizard/handlers"
	"guidewizard/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterWizardRoutes registers the guide registration wizard endpoints.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wizard")
	{
		// Public: opening a session issues the token every other call needs.
		api.POST("/sessions", hb.StartSessionHandler)

		protected := api.Group("")
		protected.Use(middleware.SessionAuthMiddleware())
		protected.GET("", hb.GetStepHandler)
		protected.DELETE("", hb.EndSessionHandler)
		protected.POST("/phone", hb.SubmitPhoneHandler)
		protected.POST("/basic-info", hb.SubmitBasicInfoHandler)
		protected.POST("/profile-picture", hb.UploadPictureHandler)
		protected.POST("/continue", hb.ContinueHandler)
		protected.POST("/kyc", hb.SubmitKYCHandler)
		protected.POST("/back", hb.BackHandler)
		protected.POST("/restart", hb.RestartHandler)
	}
}

// RegisterMetricsRoute exposes the Prometheus registry.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// allowedOrigins splits a comma-separated origin list.
func allowedOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, corsOrigins string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(corsOrigins),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.SessionTokenHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWizardRoutes(r, hb)
	RegisterMetricsRoute(r)
}
