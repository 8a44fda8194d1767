// AngelaMos | 2026
// purge.go

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	purgeGrace   = 24 * time.Hour
	purgeTimeout = time.Minute
)

// PurgeJob deletes refresh tokens that expired more than a day ago.
type PurgeJob struct {
	cron   *cron.Cron
	repo   Repository
	logger *slog.Logger
}

func NewPurgeJob(
	repo Repository,
	schedule string,
	logger *slog.Logger,
) (*PurgeJob, error) {
	j := &PurgeJob{
		cron:   cron.New(),
		repo:   repo,
		logger: logger,
	}

	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return nil, fmt.Errorf("schedule token purge %q: %w", schedule, err)
	}

	return j, nil
}

func (j *PurgeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	n, err := j.repo.DeleteExpired(ctx, time.Now().Add(-purgeGrace))
	if err != nil {
		j.logger.Error("token purge failed", "error", err)
		return
	}

	j.logger.Info("token purge complete", "deleted", n)
}

func (j *PurgeJob) Start() {
	j.cron.Start()
}

// Stop waits for a running purge to finish or ctx to expire.
func (j *PurgeJob) Stop(ctx context.Context) error {
	done := j.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
