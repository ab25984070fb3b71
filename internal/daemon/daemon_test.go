package daemon

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"hashhound/internal/config"
	"hashhound/internal/jobs"
	"hashhound/internal/logging"
	"hashhound/internal/queue"
	"hashhound/internal/services"
	"hashhound/internal/testsupport"
)

func newTestDaemon(t *testing.T, opts ...testsupport.ConfigOption) (*config.Config, *Daemon) {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	runner, err := jobs.NewRunner(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("jobs.NewRunner: %v", err)
	}
	logPath := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)

	d, err := New(cfg, store, logging.NewNop(), runner, logPath)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return cfg, d
}

func TestDaemonStartStop(t *testing.T) {
	_, d := newTestDaemon(t)

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.PID <= 0 {
		t.Fatalf("expected positive PID, got %d", status.PID)
	}
	if status.QueueDBPath == "" {
		t.Fatal("expected queue database path")
	}
	if len(status.Checks) != 5 {
		t.Fatalf("expected 5 preflight checks, got %d", len(status.Checks))
	}
	for _, check := range status.Checks {
		if !check.Passed {
			t.Errorf("check %q failed: %s", check.Name, check.Detail)
		}
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected daemon to report stopped")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg, first := newTestDaemon(t)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()

	store := testsupport.MustOpenStore(t, cfg)
	runner, err := jobs.NewRunner(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("jobs.NewRunner: %v", err)
	}
	second, err := New(cfg, store, logging.NewNop(), runner, first.LogPath())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second daemon start to fail while lock is held")
	}
}

func TestDaemonClassify(t *testing.T) {
	_, d := newTestDaemon(t)

	results, err := d.Classify(context.Background(), []string{"d41d8cd98f00b204e9800998ecf8427e"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Identified() {
		t.Fatal("expected a 32-char hex digest to be identified")
	}
}

func TestDaemonClassifyRequiresInput(t *testing.T) {
	_, d := newTestDaemon(t)

	if _, err := d.Classify(context.Background(), nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDaemonSubmitValuesAndList(t *testing.T) {
	_, d := newTestDaemon(t)
	ctx := context.Background()

	job, duplicate, err := d.SubmitValues(ctx, "batch one", []string{"d41d8cd98f00b204e9800998ecf8427e"})
	if err != nil {
		t.Fatalf("SubmitValues: %v", err)
	}
	if duplicate {
		t.Fatal("first submission should not be a duplicate")
	}
	if job.HashCount != 1 {
		t.Fatalf("expected hash count 1, got %d", job.HashCount)
	}

	_, duplicate, err = d.SubmitValues(ctx, "batch one again", []string{"d41d8cd98f00b204e9800998ecf8427e"})
	if err != nil {
		t.Fatalf("SubmitValues duplicate: %v", err)
	}
	if !duplicate {
		t.Fatal("identical hash list should be reported as duplicate")
	}

	listed, err := d.ListJobs(ctx, nil)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 job, got %d", len(listed))
	}

	filtered, err := d.ListJobs(ctx, []queue.Status{queue.StatusCompleted})
	if err != nil {
		t.Fatalf("ListJobs filtered: %v", err)
	}
	for _, item := range filtered {
		if item.Status != queue.StatusCompleted {
			t.Fatalf("filter returned job with status %s", item.Status)
		}
	}
}
