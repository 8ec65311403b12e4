package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authRepo "poolbooking_backend/internals/features/users/auth/repository"
)

// passTimeout bounds one cleanup pass.
const passTimeout = time.Minute

// StartBlacklistCleanup runs one purge immediately and then on schedule,
// a standard cron expression or descriptor such as "@daily". The caller
// stops the returned cron on shutdown.
func StartBlacklistCleanup(ctx context.Context, db *gorm.DB, log *zap.Logger, ttlDays int, schedule string) (*cron.Cron, error) {
	log = log.Named("cleanup")

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		passCtx, cancel := context.WithTimeout(ctx, passTimeout)
		defer cancel()
		RunBlacklistCleanup(passCtx, db, log, ttlDays)
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup schedule %q: %w", schedule, err)
	}

	RunBlacklistCleanup(ctx, db, log, ttlDays)
	c.Start()
	log.Info("blacklist cleanup scheduled", zap.String("schedule", schedule), zap.Int("ttl_days", ttlDays))
	return c, nil
}

// RunBlacklistCleanup does one pass and returns how many rows were removed.
func RunBlacklistCleanup(ctx context.Context, db *gorm.DB, log *zap.Logger, ttlDays int) int64 {
	cutoff := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)
	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, cutoff)
	if err != nil {
		log.Error("token_blacklist cleanup failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		log.Info("expired tokens removed", zap.Int64("count", n))
	}
	return n
}
