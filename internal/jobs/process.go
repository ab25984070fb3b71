package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hashhound/internal/classify"
	"hashhound/internal/logging"
	"hashhound/internal/queue"
	"hashhound/internal/report"
	"hashhound/internal/services"
	"hashhound/internal/textutil"
)

func (r *Runner) processJob(ctx context.Context, job *queue.Job) error {
	requestID := uuid.NewString()
	jobCtx := services.WithRequestID(ctx, requestID)
	jobCtx = services.WithJobID(jobCtx, job.ID)
	if source := strings.TrimSpace(job.SourcePath); source != "" {
		jobCtx = services.WithSource(jobCtx, filepath.Base(source))
	}
	logger := logging.WithContext(jobCtx, r.logger)

	if err := r.transitionToRunning(jobCtx, job); err != nil {
		logger.Error("failed to transition job to running", logging.Error(err))
		r.setLastError(err)
		return err
	}

	start := time.Now()
	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("job_title", job.Title),
		logging.Int64("hash_count", job.HashCount),
	)

	execErr := r.executeWithHeartbeat(jobCtx, job)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			logger.Debug("job interrupted by shutdown")
			return execErr
		}
		r.handleJobFailure(jobCtx, job, execErr)
		r.setLastError(execErr)
		return execErr
	}

	if err := r.store.Update(jobCtx, job); err != nil {
		wrapped := fmt.Errorf("persist job result: %w", err)
		logger.Error("failed to persist job result", logging.Error(wrapped))
		r.setLastError(wrapped)
		return wrapped
	}
	logger.Info("job completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.String("job_title", job.Title),
		logging.Int64("identified", job.IdentifiedCount),
		logging.Int64("unidentified", job.UnidentifiedCount),
		logging.Duration("batch_duration", time.Since(start)),
	)
	r.setLastJob(job)
	return nil
}

func (r *Runner) transitionToRunning(ctx context.Context, job *queue.Job) error {
	now := time.Now().UTC()
	job.Status = queue.StatusRunning
	job.InitProgress("Classifying", "Classification started")
	job.LastHeartbeat = &now
	if err := r.store.Update(ctx, job); err != nil {
		return fmt.Errorf("persist running transition: %w", err)
	}
	r.setLastJob(job)
	return nil
}

func (r *Runner) executeWithHeartbeat(ctx context.Context, job *queue.Job) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go r.heartbeat.StartLoop(hbCtx, &hbWG, job.ID)

	execErr := r.classifyJob(ctx, job)
	hbCancel()
	hbWG.Wait()
	return execErr
}

func (r *Runner) classifyJob(ctx context.Context, job *queue.Job) error {
	content, err := os.ReadFile(job.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "jobs", "read input", "hash list unreadable", err)
	}
	hashes := SplitLines(string(content))
	if len(hashes) == 0 {
		return services.Wrap(services.ErrValidation, "jobs", "read input", "no hash values found", nil)
	}

	job.HashCount = int64(len(hashes))
	job.SetProgress("Classifying", fmt.Sprintf("Matching %d hashes", len(hashes)), 25)
	if err := r.store.UpdateProgress(ctx, job); err != nil {
		return fmt.Errorf("persist classify progress: %w", err)
	}

	results, err := r.classifier.ClassifyBatch(ctx, hashes, r.workers())
	if err != nil {
		return err
	}

	identified := 0
	for _, result := range results {
		if result.Identified() {
			identified++
		}
	}
	job.IdentifiedCount = int64(identified)
	job.UnidentifiedCount = int64(len(results) - identified)

	job.SetProgress("Writing results", "Writing result file", 90)
	if err := r.store.UpdateProgress(ctx, job); err != nil {
		return fmt.Errorf("persist result progress: %w", err)
	}

	resultPath, err := r.writeResult(job, results)
	if err != nil {
		return services.Wrap(services.ErrTransient, "jobs", "write result", "could not write result file", err)
	}
	job.ResultPath = resultPath
	job.Status = queue.StatusCompleted
	job.LastHeartbeat = nil
	job.SetProgressComplete("Completed", fmt.Sprintf("%d of %d identified", identified, len(results)))
	return nil
}

func (r *Runner) writeResult(job *queue.Job, results []classify.Result) (string, error) {
	if err := os.MkdirAll(r.cfg.Paths.ResultsDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure results dir: %w", err)
	}
	name := fmt.Sprintf("%s-%d.json", textutil.SanitizeToken(job.Title), job.ID)
	path := filepath.Join(r.cfg.Paths.ResultsDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create result file: %w", err)
	}
	defer file.Close()
	if err := report.RenderJSON(file, results); err != nil {
		return "", fmt.Errorf("encode result file: %w", err)
	}
	return path, nil
}

func (r *Runner) workers() int {
	if r.cfg.Identify.Workers > 0 {
		return r.cfg.Identify.Workers
	}
	return classify.DefaultBatchWorkers
}

func (r *Runner) handleJobFailure(ctx context.Context, job *queue.Job, jobErr error) {
	logger := logging.WithContext(ctx, r.logger)

	message := failureMessage(jobErr)
	resolved := services.FailureStatus(jobErr)
	if resolved == queue.StatusReview {
		job.SetReview(message)
	} else {
		job.SetFailed(message)
	}

	logging.ErrorWithContext(logger, "job failed", "job_failure",
		logging.Error(jobErr),
		logging.String("resolved_status", string(resolved)),
		logging.String("error_message", message),
		logging.Alert("job_failure"),
	)

	if err := r.store.Update(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not persist job failure")
		} else {
			logger.Error("failed to persist job failure", logging.Error(err))
		}
	}
	r.setLastJob(job)
}

func failureMessage(jobErr error) string {
	if jobErr == nil {
		return "job failed without error detail"
	}
	message := strings.TrimSpace(jobErr.Error())
	if message == "" {
		return "job failed"
	}
	return message
}
