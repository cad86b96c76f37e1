package utils

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// IdleEvictor drops sessions that have been idle for too long.
type IdleEvictor interface {
	EvictIdle() int
}

// StartSessionReaper evicts idle sessions every interval until the returned
// stop function is called. stop waits for the reaper goroutine to exit.
func StartSessionReaper(sessions IdleEvictor, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	quit := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				if n := sessions.EvictIdle(); n > 0 {
					Logger.Debug("session reaper evicted idle sessions", zap.Int("count", n))
				}
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			wg.Wait()
		})
	}
}
