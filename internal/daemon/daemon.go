package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"hashhound/internal/api"
	"hashhound/internal/classify"
	"hashhound/internal/config"
	"hashhound/internal/hashtype"
	"hashhound/internal/jobs"
	"hashhound/internal/logging"
	"hashhound/internal/preflight"
	"hashhound/internal/queue"
	"hashhound/internal/services"
)

// LockFileName is the flock target enforcing one daemon per log directory.
const LockFileName = "hashhound.lock"

// Daemon coordinates background processing and enforces single-instance
// execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *queue.Store
	runner     *jobs.Runner
	intake     *jobs.Intake
	classifier *classify.Classifier
	registry   *hashtype.Registry
	apiSrv     *apiServer
	logPath    string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Runner       jobs.StatusSummary
	QueueDBPath  string
	LockFilePath string
	Checks       []preflight.Result
}

// New constructs a daemon with initialized dependencies. logPath names the
// per-run log file served by LogTail.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, runner *jobs.Runner, logPath string) (*Daemon, error) {
	if cfg == nil || store == nil || runner == nil {
		return nil, errors.New("daemon requires config, store, and runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	registry := cfg.BuildRegistry()
	lockPath := filepath.Join(cfg.Paths.LogDir, LockFileName)
	d := &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		store:      store,
		runner:     runner,
		intake:     jobs.NewIntake(cfg, store, logger),
		classifier: classify.New(registry),
		registry:   registry,
		logPath:    logPath,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	apiSrv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.apiSrv = apiSrv
	return d, nil
}

// Start launches the job runner and API server after acquiring the daemon
// lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another hashhound daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.runner.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return fmt.Errorf("start runner: %w", err)
	}
	if err := d.apiSrv.start(runCtx); err != nil {
		d.runner.Stop()
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("hashhound daemon started",
		logging.String(logging.FieldEventType, "daemon_start"),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.apiSrv.stop()
	d.runner.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("hashhound daemon stopped",
		logging.String(logging.FieldEventType, "daemon_stop"))
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Classify runs the synchronous classifier over the supplied hashes.
func (d *Daemon) Classify(ctx context.Context, hashes []string) ([]classify.Result, error) {
	if len(hashes) == 0 {
		return nil, services.Wrap(services.ErrValidation, "daemon", "classify", "at least one hash value is required", nil)
	}
	return d.classifier.ClassifyBatch(ctx, hashes, d.cfg.Identify.Workers)
}

// Registry returns the catalog the daemon classifies against.
func (d *Daemon) Registry() *hashtype.Registry {
	return d.registry
}

// SubmitFile enqueues a hash list file for asynchronous classification.
func (d *Daemon) SubmitFile(ctx context.Context, path string) (*queue.Job, bool, error) {
	return d.intake.SubmitFile(ctx, path)
}

// SubmitValues spools inline hash values and enqueues them.
func (d *Daemon) SubmitValues(ctx context.Context, title string, values []string) (*queue.Job, bool, error) {
	return d.intake.SubmitValues(ctx, title, values)
}

// ListJobs returns queue jobs filtered by optional statuses.
func (d *Daemon) ListJobs(ctx context.Context, statuses []queue.Status) ([]*queue.Job, error) {
	if len(statuses) == 0 {
		return d.store.List(ctx)
	}
	return d.store.List(ctx, statuses...)
}

// GetJob returns a single queue job, nil when no row matches.
func (d *Daemon) GetJob(ctx context.Context, id int64) (*queue.Job, error) {
	return d.store.GetByID(ctx, id)
}

// ClearJobs removes all queue jobs.
func (d *Daemon) ClearJobs(ctx context.Context) (int64, error) {
	return d.store.Clear(ctx)
}

// ClearCompleted removes only completed queue jobs.
func (d *Daemon) ClearCompleted(ctx context.Context) (int64, error) {
	return d.store.ClearCompleted(ctx)
}

// ClearFailed removes only failed queue jobs.
func (d *Daemon) ClearFailed(ctx context.Context) (int64, error) {
	return d.store.ClearFailed(ctx)
}

// RetryJobs resets failed and review jobs (optionally a subset) to pending.
func (d *Daemon) RetryJobs(ctx context.Context, ids []int64) (int64, error) {
	return d.store.RetryFailed(ctx, ids...)
}

// QueueHealth returns aggregate queue diagnostics.
func (d *Daemon) QueueHealth(ctx context.Context) (queue.HealthSummary, error) {
	return d.store.Health(ctx)
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (queue.DatabaseHealth, error) {
	return d.store.CheckHealth(ctx)
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status including preflight checks.
func (d *Daemon) Status(ctx context.Context) Status {
	checks := []preflight.Result{
		preflight.CheckDirectoryAccess("Data directory", d.cfg.Paths.DataDir),
		preflight.CheckDirectoryAccess("Log directory", d.cfg.Paths.LogDir),
		preflight.CheckDirectoryAccess("Results directory", d.cfg.Paths.ResultsDir),
		preflight.CheckCatalog(d.cfg),
		preflight.CheckDatabase(ctx, d.store),
	}
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Runner:       d.runner.Status(ctx),
		QueueDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
		Checks:       checks,
	}
}

// StatusDTO projects Status into the API representation.
func (d *Daemon) StatusDTO(ctx context.Context) api.DaemonStatus {
	status := d.Status(ctx)
	checks := make([]api.CheckResult, 0, len(status.Checks))
	for _, check := range status.Checks {
		checks = append(checks, api.CheckResult{
			Name:   check.Name,
			Passed: check.Passed,
			Detail: check.Detail,
		})
	}
	return api.DaemonStatus{
		Running:      status.Running,
		PID:          status.PID,
		QueueDBPath:  status.QueueDBPath,
		LockFilePath: status.LockFilePath,
		Runner:       api.FromRunnerStatus(status.Runner),
		Checks:       checks,
	}
}
