package helpers

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Ranker recomputes the order of the feed
type Ranker interface {
	RankProfiles(ctx context.Context) (int64, error)
}

// StartRanking runs the ranking job on the given cron spec.
// The returned cron must be stopped by the caller
func StartRanking(ranker Ranker, spec string, timeout time.Duration, logger *slog.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		logger.Info("starting profile ranking")
		n, err := ranker.RankProfiles(ctx)
		if err != nil {
			logger.Error("profile ranking did not work as expected", "error", err)
			return
		}
		logger.Info("profile ranking done", "profiles", n)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
