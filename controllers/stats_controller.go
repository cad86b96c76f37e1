package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sachahurley/betterfly-app/models"
	"github.com/sachahurley/betterfly-app/utils"
)

// SessionCounter counts persisted onboarding sessions.
type SessionCounter interface {
	CountSessions(keyPrefix string) (int, error)
}

// LiveSessions reports sessions held in memory.
type LiveSessions interface {
	Len() int
}

// StatsController reports onboarding funnel statistics.
type StatsController struct {
	db        *gorm.DB
	stored    SessionCounter
	live      LiveSessions
	keyPrefix string
}

// NewStatsController creates a new StatsController instance. db may be nil
// when analytics are disabled.
func NewStatsController(db *gorm.DB, stored SessionCounter, live LiveSessions, keyPrefix string) *StatsController {
	return &StatsController{db: db, stored: stored, live: live, keyPrefix: keyPrefix}
}

type stepCount struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

// GetStepStats returns today's per-page continue counts and session totals.
func (s *StatsController) GetStepStats(ctx *gin.Context) {
	steps := []stepCount{}
	if s.db != nil {
		// string date equality avoids timezone mismatches with the DATE column
		today := time.Now().In(time.Local).Format("2006-01-02")
		if err := s.db.Model(&models.StepView{}).
			Select("page, count").
			Where("date = ?", today).
			Order("count DESC").
			Scan(&steps).Error; err != nil {
			utils.Logger.Warn("step stats query failed", zap.Error(err))
			steps = []stepCount{}
		}
	}

	stored, err := s.stored.CountSessions(s.keyPrefix)
	if err != nil {
		// fall back to 0 instead of failing the whole endpoint
		utils.Logger.Warn("count stored sessions failed", zap.Error(err))
		stored = 0
	}

	utils.Success(ctx, gin.H{
		"steps":           steps,
		"stored_sessions": stored,
		"live_sessions":   s.live.Len(),
	})
}
