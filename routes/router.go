package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sachahurley/betterfly-app/config"
	"github.com/sachahurley/betterfly-app/controllers"
	"github.com/sachahurley/betterfly-app/middleware"
	"github.com/sachahurley/betterfly-app/onboarding"
	"github.com/sachahurley/betterfly-app/utils"
)

// Deps are the long-lived services the HTTP layer needs.
type Deps struct {
	Config      config.AppConfig
	DB          *gorm.DB
	Registry    *onboarding.Registry
	Storage     controllers.SessionCounter
	Tokens      *utils.SessionTokens
	Revocations *utils.RevocationList
	// AccessLog receives request and panic logs; nil disables request logging.
	AccessLog *zap.Logger
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if d.AccessLog != nil {
		r.Use(utils.Ginzap(d.AccessLog, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(d.AccessLog, true))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	onboardingController := controllers.NewOnboardingController(d.Registry, d.Tokens, d.Revocations)
	statsController := controllers.NewStatsController(d.DB, d.Storage, d.Registry, d.Registry.Config().KeyPrefix)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	api := r.Group("/api/v1")
	api.GET("/stats/steps", statsController.GetStepStats)

	ob := api.Group("/onboarding")
	ob.POST("/sessions", limiter.Middleware(), onboardingController.CreateSession)

	protected := ob.Group("")
	protected.Use(middleware.SessionRequired(d.Tokens, d.Revocations), limiter.Middleware())
	protected.GET("/state", onboardingController.GetState)
	protected.PUT("/answers/:key", onboardingController.SetAnswer)
	protected.POST("/continue/:page", onboardingController.Continue)
	protected.POST("/followup/select", onboardingController.SelectFollowUp)
	protected.POST("/followup/skip", onboardingController.SkipFollowUp)
	protected.POST("/informational/close", onboardingController.CloseInformational)
	protected.POST("/toast/ack", onboardingController.AcknowledgeToast)
	protected.POST("/review/complete", onboardingController.CompleteReview)
	protected.GET("/review", onboardingController.GetReview)
	protected.POST("/reset", onboardingController.Reset)
	protected.POST("/complete", onboardingController.Complete)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
