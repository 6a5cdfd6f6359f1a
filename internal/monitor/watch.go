package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/pfrederiksen/dp-monitor/internal/logger"
)

// Watch runs the monitor immediately and then every interval until ctx is done.
// Runs never overlap: a tick that fires while a run is in progress is skipped.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration) error {
	s, err := gocron.NewScheduler(
		gocron.WithClock(m.clock),
		gocron.WithLocation(time.Local),
	)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	m.Run(ctx)

	job, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			m.Run(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("scrape"),
	)
	if err != nil {
		return fmt.Errorf("scheduling scrape: %w", err)
	}

	s.Start()
	next, _ := job.NextRun()
	m.log.Info("Watching sources", logger.Fields{
		"interval": interval.String(),
		"sources":  len(m.sources),
		"next_run": next.Format(time.RFC3339),
	})

	<-ctx.Done()

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("stopping scheduler: %w", err)
	}
	m.log.Info("Stopped watching", nil)
	return nil
}
