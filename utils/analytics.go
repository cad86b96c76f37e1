package utils

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sachahurley/betterfly-app/models"
	"github.com/sachahurley/betterfly-app/onboarding"
)

// LogAnalytics writes analytics events to a zap logger.
type LogAnalytics struct {
	log *zap.Logger
}

// NewLogAnalytics returns a sink logging at debug level.
func NewLogAnalytics(l *zap.Logger) *LogAnalytics {
	return &LogAnalytics{log: l.Named("analytics")}
}

func (a *LogAnalytics) Track(e onboarding.Event) {
	a.log.Debug(e.Name,
		zap.String("session", e.SessionID),
		zap.String("page", e.Page),
		zap.Int("coins", e.Coins),
		zap.String("detail", e.Detail),
	)
}

// GormAnalytics stores events in the database from a background writer so
// Track never blocks a request. Events are dropped when the buffer is full.
type GormAnalytics struct {
	db     *gorm.DB
	events chan onboarding.Event
	wg     sync.WaitGroup
	once   sync.Once
}

var (
	_ onboarding.Analytics = (*GormAnalytics)(nil)
	_ onboarding.Analytics = (*LogAnalytics)(nil)
)

// NewGormAnalytics starts the writer goroutine. Call Close to flush and stop it.
func NewGormAnalytics(db *gorm.DB, buffer int) *GormAnalytics {
	if buffer <= 0 {
		buffer = 256
	}
	a := &GormAnalytics{db: db, events: make(chan onboarding.Event, buffer)}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *GormAnalytics) Track(e onboarding.Event) {
	select {
	case a.events <- e:
	default:
		Logger.Warn("analytics buffer full, dropping event",
			zap.String("event", e.Name), zap.String("session", e.SessionID))
	}
}

// Close flushes buffered events and stops the writer. Track must not be
// called after Close.
func (a *GormAnalytics) Close() {
	a.once.Do(func() {
		close(a.events)
		a.wg.Wait()
	})
}

func (a *GormAnalytics) run() {
	defer a.wg.Done()
	for e := range a.events {
		a.write(e)
	}
}

func (a *GormAnalytics) write(e onboarding.Event) {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	row := models.OnboardingEvent{
		SessionID:  e.SessionID,
		Name:       e.Name,
		Page:       e.Page,
		Coins:      e.Coins,
		Detail:     e.Detail,
		OccurredAt: at,
	}
	if err := a.db.Create(&row).Error; err != nil {
		Logger.Warn("store analytics event failed", zap.String("event", e.Name), zap.Error(err))
	}
	if e.Name != "continue" || e.Page == "" {
		return
	}
	local := at.In(time.Local)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	// atomic upsert keeps concurrent writers off duplicate keys
	err := a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "page"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
	}).Create(&models.StepView{Date: day, Page: e.Page, Count: 1}).Error
	if err != nil {
		Logger.Warn("count step view failed", zap.String("page", e.Page), zap.Error(err))
	}
}

// FanoutAnalytics forwards every event to each sink.
type FanoutAnalytics []onboarding.Analytics

func (f FanoutAnalytics) Track(e onboarding.Event) {
	for _, a := range f {
		a.Track(e)
	}
}
