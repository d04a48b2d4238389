package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepTimeout = time.Minute

// StartSessionSweeper prunes idle sessions on the given cron schedule.
// Stop the returned scheduler on shutdown.
func StartSessionSweeper(schedule string, manager *SessionManager, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		n, err := manager.Prune(ctx)
		if err != nil {
			logger.Error("session sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("idle sessions pruned", zap.Int64("count", n), zap.Duration("idle_after", manager.TTL()))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Info("session sweeper started", zap.String("schedule", schedule), zap.Duration("idle_after", manager.TTL()))
	return c, nil
}
