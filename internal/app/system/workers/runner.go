// internal/app/system/workers/runner.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/placementhub/internal/app/system/tasks"
	"go.uber.org/zap"
)

// DefaultJobTimeout bounds a single job run when the job sets none.
const DefaultJobTimeout = 30 * time.Second

// Runner runs each registered job on its own ticker until stopped.
type Runner struct {
	jobs   []tasks.Job
	log    *zap.Logger
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewRunner creates a runner for jobs. Jobs with a non-positive interval
// or nil Run are skipped.
func NewRunner(logger *zap.Logger, jobs ...tasks.Job) *Runner {
	r := &Runner{log: logger, stopCh: make(chan struct{})}
	for _, j := range jobs {
		if j.Interval <= 0 || j.Run == nil {
			logger.Warn("skipping invalid job", zap.String("job", j.Name))
			continue
		}
		r.jobs = append(r.jobs, j)
	}
	return r
}

// Start launches one goroutine per job. Calling it twice is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true
	for _, j := range r.jobs {
		r.wg.Add(1)
		go r.loop(j)
		r.log.Info("background job started",
			zap.String("job", j.Name),
			zap.Duration("interval", j.Interval))
	}
}

// Stop signals every job to stop and waits for in-flight runs to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.stopCh)
	r.mu.Unlock()

	r.wg.Wait()
	r.log.Info("background jobs stopped")
}

func (r *Runner) loop(j tasks.Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.RunOnce(j)
		}
	}
}

// RunOnce executes j synchronously with its timeout, logging any error or
// panic instead of propagating it.
func (r *Runner) RunOnce(j tasks.Job) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("background job panicked", zap.String("job", j.Name), zap.Any("panic", p))
		}
	}()

	start := time.Now()
	if err := j.Run(ctx); err != nil {
		r.log.Error("background job failed",
			zap.String("job", j.Name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
	}
}
