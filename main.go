package main

import (
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sachahurley/betterfly-app/config"
	"github.com/sachahurley/betterfly-app/models"
	"github.com/sachahurley/betterfly-app/onboarding"
	"github.com/sachahurley/betterfly-app/routes"
	"github.com/sachahurley/betterfly-app/utils"
)

func main() {
	// a missing .env is fine; the environment may already be populated
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync() //nolint:errcheck

	rc := utils.NewRedisClient(cfg)
	maxAge := time.Duration(cfg.StateMaxAgeHours) * time.Hour
	storage := utils.NewRedisStorage(rc, maxAge)

	var (
		db        *gorm.DB
		analytics onboarding.Analytics = utils.NewLogAnalytics(utils.Logger)
		gormSink  *utils.GormAnalytics
	)
	if cfg.AnalyticsEnabled {
		db, err = config.InitDatabase(cfg, &models.OnboardingEvent{}, &models.StepView{})
		if err != nil {
			utils.Logger.Fatal("database init failed", zap.Error(err))
		}
		gormSink = utils.NewGormAnalytics(db, 1024)
		analytics = utils.FanoutAnalytics{analytics, gormSink}
	}

	registry := onboarding.NewRegistry(
		storage,
		onboarding.NewBank(rand.New(rand.NewSource(time.Now().UnixNano()))),
		onboarding.Config{
			Rewards: onboarding.Rewards{
				Base:     cfg.BaseQuestionReward,
				FollowUp: cfg.FollowUpReward,
				Review:   cfg.ReviewBonus,
			},
			MaxAge:      maxAge,
			KeyPrefix:   cfg.StorageKeyPrefix,
			IdleTimeout: time.Duration(cfg.SessionIdleMinutes) * time.Minute,
		},
		onboarding.WithRegistryAnalytics(analytics),
		onboarding.WithRegistryLogger(utils.Logger.Named("onboarding")),
	)

	accessLog, err := utils.NewRollingFileLogger(utils.GinLogFile(cfg), cfg.LogLevel)
	if err != nil {
		utils.Logger.Warn("access log unavailable, using default recovery", zap.Error(err))
	}

	r := routes.SetupRouter(routes.Deps{
		Config:      cfg,
		DB:          db,
		Registry:    registry,
		Storage:     storage,
		Tokens:      utils.NewSessionTokens(cfg.JWTSecret, time.Duration(cfg.SessionTokenHours)*time.Hour),
		Revocations: utils.NewRevocationList(rc),
		AccessLog:   accessLog,
	})

	srv := utils.NewGraceServer(":"+cfg.AppPort, r)
	stopReaper := utils.StartSessionReaper(registry, time.Minute)
	srv.OnShutdown(func() {
		if rc != nil {
			_ = rc.Close()
		}
	})
	srv.OnShutdown(func() {
		if gormSink != nil {
			gormSink.Close()
		}
	})
	srv.OnShutdown(stopReaper)

	utils.Logger.Info("starting server", zap.String("port", cfg.AppPort), zap.Bool("durable_storage", storage.Durable()))
	if err := srv.ListenAndServe(); err != nil {
		utils.Logger.Fatal("server stopped with error", zap.Error(err))
	}
}
