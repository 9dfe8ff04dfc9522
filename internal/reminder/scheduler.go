package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/spring-sisters/spring-backend/internal/logger"
)

// DefaultSchedule runs the reorder sweep every day at 08:00:00.
const DefaultSchedule = "0 0 8 * * *"

type Scheduler struct {
	cron    *cron.Cron
	job     *ReorderJob
	timeout time.Duration
}

func NewScheduler(job *ReorderJob, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		job:     job,
		timeout: timeout,
	}
}

// Start registers the sweep on spec (six-field, seconds first) and starts cron.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("schedule reorder sweep %q: %w", spec, err)
	}
	s.cron.Start()
	logger.L().Sugar().Infof("reorder sweep scheduled: %s", spec)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	ctx = logger.WithRequestID(ctx, "reorder-sweep-"+time.Now().UTC().Format("20060102T150405"))

	res, err := s.job.Run(ctx, time.Now())
	log := logger.NewLogger(ctx)
	if err != nil {
		log.LogError("reorder_sweep", err)
		return
	}
	log.LogInfof("reorder_sweep", "targets=%d sent=%d skipped=%d failed=%d", res.Targets, res.Sent, res.Skipped, res.Failed)
}
