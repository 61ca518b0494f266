package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/stockpicker/pkg/logger"
)

// DefaultWarmSchedule refreshes cached rankings every 10 minutes
const DefaultWarmSchedule = "0 */10 * * * *"

// Warmer precomputes and caches rankings.
// *recommend.Service satisfies it.
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// CacheWarmJob recomputes every strategy ranking on a schedule
// ⭐ SSOT: 추천 캐시 워밍 스케줄은 이 Job에서만
type CacheWarmJob struct {
	warmer   Warmer
	schedule string
	logger   *logger.Logger
}

// NewCacheWarmJob creates a new cache warm job. Empty schedule uses DefaultWarmSchedule.
func NewCacheWarmJob(warmer Warmer, schedule string, log *logger.Logger) *CacheWarmJob {
	if schedule == "" {
		schedule = DefaultWarmSchedule
	}
	return &CacheWarmJob{
		warmer:   warmer,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *CacheWarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the cron schedule (with seconds)
func (j *CacheWarmJob) Schedule() string {
	return j.schedule
}

// Run warms the recommendation cache
func (j *CacheWarmJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache warm")

	n, err := j.warmer.Warm(ctx)
	if err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	j.logger.WithField("strategies", n).Info("Recommendation cache warmed")
	return nil
}
