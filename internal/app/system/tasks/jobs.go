// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	magiclinkstore "github.com/dalemusser/placementhub/internal/app/store/magiclinks"
	noticestore "github.com/dalemusser/placementhub/internal/app/store/notices"
	"go.uber.org/zap"
)

// NoticeExpiryJob deactivates notices whose expires_at has passed, so the
// admin list reflects what students actually see.
func NoticeExpiryJob(store *noticestore.Store, logger *zap.Logger, interval time.Duration) Job {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return Job{
		Name:     "notice-expiry",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := store.DeactivateExpired(ctx, time.Now())
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("deactivated expired notices", zap.Int64("count", count))
			}
			return nil
		},
	}
}

// MagicLinkCleanupJob removes expired magic links.
// This is a backup for when MongoDB's TTL index cleanup is delayed.
func MagicLinkCleanupJob(store *magiclinkstore.Store, logger *zap.Logger, interval time.Duration) Job {
	if interval <= 0 {
		interval = time.Hour
	}
	return Job{
		Name:     "magic-link-cleanup",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := store.DeleteExpired(ctx, time.Now())
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired magic links", zap.Int64("count", count))
			}
			return nil
		},
	}
}
