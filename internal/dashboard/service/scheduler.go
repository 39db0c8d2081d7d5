package service

import (
	"context"
	"time"

	"github.com/ridloal/retail-pos/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

const refreshTimeout = 30 * time.Second

// Scheduler periodically refreshes the cached analytics.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

// NewScheduler registers the refresh job. spec uses the standard five-field
// cron syntax or descriptors such as "@every 5m".
func NewScheduler(svc DashboardService, spec string) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		logger.Info("Scheduler: refreshing dashboard analytics")
		// Background job, tidak terikat ke request
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := svc.RefreshAnalytics(ctx); err != nil {
			logger.Error("Scheduler: analytics refresh failed", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, spec: spec}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Analytics refresh scheduler started", "spec", s.spec)
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
