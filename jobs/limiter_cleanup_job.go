// File: /jobs/limiter_cleanup_job.go
package jobs

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"fuellog-api/middleware"
)

// LimiterCleanupJob periodically forgets clients that stopped calling the API
// so the per-IP limiter map does not grow without bound.
type LimiterCleanupJob struct {
	limiter  *middleware.RateLimiter
	interval time.Duration
	maxIdle  time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

func NewLimiterCleanupJob(limiter *middleware.RateLimiter, interval, maxIdle time.Duration) *LimiterCleanupJob {
	return &LimiterCleanupJob{
		limiter:  limiter,
		interval: interval,
		maxIdle:  maxIdle,
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup job
func (j *LimiterCleanupJob) Start() {
	log.WithField("interval", j.interval.String()).Info("Limiter cleanup job started")

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.cleanup()
			case <-j.done:
				log.Info("Limiter cleanup job stopped")
				return
			}
		}
	}()
}

// Stop ends the job. It is safe to call more than once.
func (j *LimiterCleanupJob) Stop() {
	j.stopOnce.Do(func() { close(j.done) })
}

func (j *LimiterCleanupJob) cleanup() {
	if removed := j.limiter.CleanupLimiters(j.maxIdle); removed > 0 {
		log.WithFields(log.Fields{
			"removed":   removed,
			"remaining": j.limiter.Size(),
		}).Debug("Pruned idle rate limiters")
	}
}
