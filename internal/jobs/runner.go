package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hashhound/internal/classify"
	"hashhound/internal/config"
	"hashhound/internal/logging"
	"hashhound/internal/queue"
)

// Runner drains pending queue jobs through the classifier.
type Runner struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	classifier   *classify.Classifier
	pollInterval time.Duration
	heartbeat    *HeartbeatMonitor

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
	lastJob *queue.Job
}

// NewRunner constructs a runner over the configured registry. Custom catalog
// entries from the config are merged before the classifier is built; an entry
// whose pattern does not compile is fatal here because it would silently never
// match.
func NewRunner(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Runner, error) {
	registry := cfg.BuildRegistry()
	for _, entry := range registry.Entries() {
		if err := entry.PatternErr(); err != nil {
			return nil, fmt.Errorf("catalog entry %s: %w", entry.Name, err)
		}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "jobs"),
		classifier:   classify.New(registry),
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
	}, nil
}

// Start begins background processing.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("runner already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := r.heartbeat.ReclaimStale(ctx); err != nil {
			logging.WarnWithContext(r.logger, "reclaim stale processing failed; stuck jobs may remain", "heartbeat_reclaim_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check queue database access"),
			)
		}

		job, err := r.store.NextForStatuses(ctx, queue.StatusPending)
		if err != nil {
			r.handleNextJobError(ctx, err)
			continue
		}
		if job == nil {
			r.waitForJobOrShutdown(ctx)
			continue
		}

		if err := r.processJob(ctx, job); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

func (r *Runner) handleNextJobError(ctx context.Context, err error) {
	r.setLastError(err)
	logging.ErrorWithContext(r.logger, "failed to fetch next queue job", "queue_fetch_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check queue database access"),
	)
	select {
	case <-ctx.Done():
		return
	case <-time.After(time.Duration(r.cfg.Workflow.ErrorRetryInterval) * time.Second):
	}
}

func (r *Runner) waitForJobOrShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(r.pollInterval):
	}
}

func (r *Runner) setLastError(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}

func (r *Runner) setLastJob(job *queue.Job) {
	r.mu.Lock()
	if job != nil {
		copy := *job
		r.lastJob = &copy
	} else {
		r.lastJob = nil
	}
	r.mu.Unlock()
}
