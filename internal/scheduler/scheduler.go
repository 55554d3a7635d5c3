package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
)

// Syncer defines the interface for roster-wide sync passes.
type Syncer interface {
	SyncAll(ctx context.Context, progress domain.ProgressFunc) (*domain.SyncReport, error)
}

// Scheduler runs background sync passes at a fixed interval, so the store
// keeps filling between manual /sync commands.
type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(syncer Syncer, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if _, err := s.syncer.SyncAll(syncCtx, nil); err != nil {
		s.logger.Error("background sync failed", "error", err)
	}
}
