package worker

import (
	"context"
	"log"
	"time"

	"github.com/MaleyDenis/infoBro/model"
	"github.com/MaleyDenis/infoBro/runner"
)

// Scheduler triggers a run of every connector on a fixed interval, on top
// of the on-demand HTTP triggers.
type Scheduler struct {
	coordinator *runner.Coordinator
	interval    time.Duration
}

func NewScheduler(coordinator *runner.Coordinator, interval time.Duration) *Scheduler {
	return &Scheduler{
		coordinator: coordinator,
		interval:    interval,
	}
}

// Start blocks until ctx is cancelled. Runs once immediately, then on
// every tick.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("Scheduler started, interval %v", s.interval)

	s.runAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Scheduler) runAll(ctx context.Context) {
	log.Println("Scheduled refresh of all sources")
	results := s.coordinator.RunAll(ctx)

	succeeded, failed := 0, 0
	for id, result := range results {
		if result.Status == model.RunSucceeded {
			succeeded++
		} else {
			failed++
			log.Printf("Scheduled run failed for %s: %s", id, result.Message)
		}
	}
	log.Printf("Scheduled refresh done: %d succeeded, %d failed", succeeded, failed)
}
