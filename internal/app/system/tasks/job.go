// internal/app/system/tasks/job.go
package tasks

import (
	"context"
	"time"
)

// Job is a unit of periodic background work.
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single Run. Zero means the runner's default.
	Timeout time.Duration
	Run     func(ctx context.Context) error
}
