package intake

import (
	"context"
	"log/slog"
	"time"
)

const purgeTimeout = 30 * time.Second

// PurgeJob drops abandoned sessions. It is meant to run on a schedule.
type PurgeJob struct {
	svc *Service
	ttl time.Duration
}

func NewPurgeJob(svc *Service, ttl time.Duration) *PurgeJob {
	return &PurgeJob{svc: svc, ttl: ttl}
}

func (j *PurgeJob) Name() string { return "purge-idle-sessions" }

func (j *PurgeJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	n, err := j.svc.PurgeIdle(ctx, j.ttl)
	if err != nil {
		return err
	}

	if n > 0 {
		slog.Info("purged idle sessions", "count", n)
	}

	return nil
}
