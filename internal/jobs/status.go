package jobs

import (
	"context"

	"hashhound/internal/logging"
	"hashhound/internal/queue"
)

// StatusSummary represents lightweight runner diagnostics.
type StatusSummary struct {
	Running    bool
	LastError  string
	LastJob    *queue.Job
	QueueStats map[queue.Status]int
}

// Status returns the latest runner information.
func (r *Runner) Status(ctx context.Context) StatusSummary {
	r.mu.RLock()
	running := r.running
	lastErr := r.lastErr
	lastJob := r.lastJob
	r.mu.RUnlock()

	stats, err := r.store.Stats(ctx)
	if err != nil {
		r.logger.Warn("failed to read queue stats", logging.Error(err))
	}

	summary := StatusSummary{Running: running, QueueStats: stats}
	if lastErr != nil {
		summary.LastError = lastErr.Error()
	}
	if lastJob != nil {
		copy := *lastJob
		summary.LastJob = &copy
	}
	return summary
}
