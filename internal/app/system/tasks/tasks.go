// internal/app/system/tasks/tasks.go
//
// Package tasks runs recurring background jobs on fixed intervals. Jobs
// share one runner so startup and shutdown stay in one place.
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a named unit of periodic work. Run is called once per interval
// tick; a returned error is logged and the job keeps its schedule.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner executes registered jobs until Stop is called.
type Runner struct {
	jobs []Job
	log  *zap.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewRunner(log *zap.Logger, jobs ...Job) *Runner {
	return &Runner{
		jobs:   jobs,
		log:    log,
		stopCh: make(chan struct{}),
	}
}

// Start launches one goroutine per job. Each job also runs once at
// startup so a long interval does not delay the first execution.
func (r *Runner) Start() {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(job)
	}
	r.log.Info("task runner started", zap.Int("jobs", len(r.jobs)))
}

// Stop signals all job loops to exit and waits for them to finish.
func (r *Runner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("task runner stopped")
}

func (r *Runner) loop(job Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	r.runOnce(job)

	for {
		select {
		case <-ticker.C:
			r.runOnce(job)
		case <-r.stopCh:
			return
		}
	}
}

func (r *Runner) runOnce(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := job.Run(ctx); err != nil {
		r.log.Error("task failed",
			zap.String("task", job.Name),
			zap.Error(err))
		return
	}
	r.log.Debug("task completed", zap.String("task", job.Name))
}
