package main

import (
	"context"
	"fmt"
	"strings"

	"hashhound/internal/api"
	"hashhound/internal/config"
	"hashhound/internal/ipc"
	"hashhound/internal/jobs"
	"hashhound/internal/logging"
	"hashhound/internal/queue"
)

// jobsAPI abstracts queue operations so commands work identically through the
// daemon socket and against the database directly when the daemon is down.
type jobsAPI interface {
	Stats(ctx context.Context) (map[string]int, error)
	List(ctx context.Context, statuses []string) ([]api.Job, error)
	Describe(ctx context.Context, id int64) (*api.Job, error)
	SubmitFile(ctx context.Context, path string) (api.Job, bool, error)
	SubmitValues(ctx context.Context, title string, hashes []string) (api.Job, bool, error)
	Clear(ctx context.Context, scope string) (int64, error)
	Retry(ctx context.Context, ids []int64) (int64, error)
	Health(ctx context.Context) (queue.HealthSummary, error)
}

// withJobsAPI runs fn against the daemon when reachable, otherwise against
// the queue database directly.
func (c *commandContext) withJobsAPI(fn func(jobsAPI) error) error {
	client, dialErr := c.dialClient()
	if dialErr == nil {
		defer client.Close()
		return fn(&jobsIPCAdapter{client: client})
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return dialErr
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return dialErr
	}
	defer store.Close()
	return fn(&jobsStoreAdapter{
		cfg:     cfg,
		store:   store,
		service: api.NewJobService(store),
	})
}

// --- IPC adapter ---

type jobsIPCAdapter struct {
	client *ipc.Client
}

func (a *jobsIPCAdapter) Stats(_ context.Context) (map[string]int, error) {
	resp, err := a.client.Status()
	if err != nil {
		return nil, err
	}
	return resp.QueueStats, nil
}

func (a *jobsIPCAdapter) List(_ context.Context, statuses []string) ([]api.Job, error) {
	resp, err := a.client.ListJobs(statuses)
	if err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

func (a *jobsIPCAdapter) Describe(_ context.Context, id int64) (*api.Job, error) {
	resp, err := a.client.DescribeJob(id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, nil
		}
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return &resp.Job, nil
}

func (a *jobsIPCAdapter) SubmitFile(_ context.Context, path string) (api.Job, bool, error) {
	resp, err := a.client.SubmitJob(ipc.SubmitJobRequest{Path: path})
	if err != nil {
		return api.Job{}, false, err
	}
	return resp.Job, resp.Duplicate, nil
}

func (a *jobsIPCAdapter) SubmitValues(_ context.Context, title string, hashes []string) (api.Job, bool, error) {
	resp, err := a.client.SubmitJob(ipc.SubmitJobRequest{Title: title, Hashes: hashes})
	if err != nil {
		return api.Job{}, false, err
	}
	return resp.Job, resp.Duplicate, nil
}

func (a *jobsIPCAdapter) Clear(_ context.Context, scope string) (int64, error) {
	resp, err := a.client.ClearJobs(scope)
	if err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

func (a *jobsIPCAdapter) Retry(_ context.Context, ids []int64) (int64, error) {
	resp, err := a.client.RetryJobs(ids)
	if err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (a *jobsIPCAdapter) Health(_ context.Context) (queue.HealthSummary, error) {
	resp, err := a.client.QueueHealth()
	if err != nil {
		return queue.HealthSummary{}, err
	}
	return queue.HealthSummary(*resp), nil
}

// --- Store adapter ---

type jobsStoreAdapter struct {
	cfg     *config.Config
	store   *queue.Store
	service *api.JobService
}

func (a *jobsStoreAdapter) Stats(ctx context.Context) (map[string]int, error) {
	return a.service.Stats(ctx)
}

func (a *jobsStoreAdapter) List(ctx context.Context, statuses []string) ([]api.Job, error) {
	var filters []queue.Status
	for _, s := range statuses {
		parsed, ok := queue.ParseStatus(s)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", s)
		}
		filters = append(filters, parsed)
	}
	return a.service.List(ctx, filters...)
}

func (a *jobsStoreAdapter) Describe(ctx context.Context, id int64) (*api.Job, error) {
	return a.service.Describe(ctx, id)
}

func (a *jobsStoreAdapter) SubmitFile(ctx context.Context, path string) (api.Job, bool, error) {
	intake := jobs.NewIntake(a.cfg, a.store, logging.NewNop())
	job, duplicate, err := intake.SubmitFile(ctx, path)
	if err != nil {
		return api.Job{}, false, err
	}
	return api.FromJob(job), duplicate, nil
}

func (a *jobsStoreAdapter) SubmitValues(ctx context.Context, title string, hashes []string) (api.Job, bool, error) {
	intake := jobs.NewIntake(a.cfg, a.store, logging.NewNop())
	job, duplicate, err := intake.SubmitValues(ctx, title, hashes)
	if err != nil {
		return api.Job{}, false, err
	}
	return api.FromJob(job), duplicate, nil
}

func (a *jobsStoreAdapter) Clear(ctx context.Context, scope string) (int64, error) {
	switch scope {
	case ipc.ClearScopeAll:
		return a.store.Clear(ctx)
	case ipc.ClearScopeFailed:
		return a.store.ClearFailed(ctx)
	case ipc.ClearScopeCompleted, "":
		return a.store.ClearCompleted(ctx)
	default:
		return 0, fmt.Errorf("unknown clear scope %q", scope)
	}
}

func (a *jobsStoreAdapter) Retry(ctx context.Context, ids []int64) (int64, error) {
	return a.store.RetryFailed(ctx, ids...)
}

func (a *jobsStoreAdapter) Health(ctx context.Context) (queue.HealthSummary, error) {
	return a.store.Health(ctx)
}
