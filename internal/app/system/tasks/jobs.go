// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	jobstore "github.com/dalemusser/yelpcamp/internal/app/store/jobs"
	userstore "github.com/dalemusser/yelpcamp/internal/app/store/users"
	"github.com/dalemusser/yelpcamp/internal/app/system/reconcile"
	"go.uber.org/zap"
)

// NotificationRefSweepJob prunes notification ids that no longer resolve
// to a document from every user.
func NotificationRefSweepJob(svc *reconcile.Service, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "notification-ref-sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			res, err := svc.SweepNotificationRefs(ctx)
			if err != nil {
				return err
			}
			if res.RefsRemoved > 0 {
				logger.Info("pruned dead notification references",
					zap.Int("users_scanned", res.UsersScanned),
					zap.Int("users_fixed", res.UsersFixed),
					zap.Int("refs_removed", res.RefsRemoved))
			}
			return nil
		},
	}
}

// ExpiredResetTokenSweepJob clears password reset tokens past expiry.
// Lookups already treat them as expired; this keeps the data tidy.
func ExpiredResetTokenSweepJob(users *userstore.Store, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "expired-reset-token-sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := users.ClearExpiredResetTokens(ctx, time.Now())
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleared expired reset tokens", zap.Int64("count", count))
			}
			return nil
		},
	}
}

// FinishedJobPurgeJob deletes finished queue jobs older than retain.
func FinishedJobPurgeJob(jobs *jobstore.Store, logger *zap.Logger, retain time.Duration) Job {
	return Job{
		Name:     "finished-job-purge",
		Interval: 6 * time.Hour,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			count, err := jobs.PurgeFinished(ctx, time.Now().Add(-retain))
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("purged finished jobs", zap.Int64("count", count))
			}
			return nil
		},
	}
}
