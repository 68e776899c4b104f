package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Task is a unit of background store upkeep.
type Task interface {
	Run(ctx context.Context) error
}

// Scheduler runs a maintenance task on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	task    Task
	timeout time.Duration
}

// NewScheduler creates a scheduler that runs task according to spec, a
// standard five-field cron expression or descriptor such as "@daily".
func NewScheduler(spec string, task Task, timeout time.Duration) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", spec, err)
	}

	s := &Scheduler{cron: cron.New(), task: task, timeout: timeout}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, err
	}
	return s, nil
}

// Run starts the scheduler in the background.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting background maintenance scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped background maintenance scheduler")
}

// RunOnce executes the task immediately.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.task.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Scheduled maintenance failed")
		return
	}
	log.Info().Dur("took", time.Since(start)).Msg("Scheduled maintenance completed")
}
