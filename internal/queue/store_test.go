package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hashhound/internal/queue"
	"hashhound/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, "", "/tmp/leaked_ntlm-dump.txt", "fingerprint-1", 42)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	if job.ID == 0 {
		t.Fatal("expected job ID to be assigned")
	}
	if job.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", job.Status)
	}
	if job.Title != "Leaked Ntlm Dump" {
		t.Fatalf("unexpected derived title: %q", job.Title)
	}
	if job.HashCount != 42 {
		t.Fatalf("expected hash count 42, got %d", job.HashCount)
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.SourcePath != "/tmp/leaked_ntlm-dump.txt" {
		t.Fatalf("unexpected fetched job: %#v", fetched)
	}

	found, err := store.FindByFingerprint(ctx, "fingerprint-1")
	if err != nil {
		t.Fatalf("FindByFingerprint failed: %v", err)
	}
	if found == nil || found.ID != job.ID {
		t.Fatalf("expected to find inserted job, got %#v", found)
	}

	titled, err := store.NewJob(ctx, "Corp Breach Q3", "/tmp/other.txt", "fingerprint-2", 7)
	if err != nil {
		t.Fatalf("NewJob with title failed: %v", err)
	}
	if titled.Title != "Corp Breach Q3" {
		t.Fatalf("expected explicit title preserved, got %q", titled.Title)
	}
}

func TestNewJobRequiresFingerprint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.NewJob(ctx, "", "/tmp/hashes.txt", "", 1); err == nil {
		t.Fatal("expected error when fingerprint missing")
	}
	if _, err := store.NewJob(ctx, "", "", "fp", 1); err == nil {
		t.Fatal("expected error when source path missing")
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil for missing job, got %#v", job)
	}
}

func TestResetStuckProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job := testsupport.NewJob(t, store, "/tmp/stuck.txt", "fp-stuck", 3)
	now := time.Now().UTC()
	job.Status = queue.StatusRunning
	job.LastHeartbeat = &now
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 job reset, got %d", count)
	}

	updated, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.Status != queue.StatusPending {
		t.Fatalf("expected status pending, got %s", updated.Status)
	}
	if updated.LastHeartbeat != nil {
		t.Fatal("expected heartbeat cleared")
	}
}

func TestJobsByStatusOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewJob(t, store, "/tmp/a.txt", "fp-a", 1)
	b := testsupport.NewJob(t, store, "/tmp/b.txt", "fp-b", 1)
	b.Status = queue.StatusCompleted
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	jobs, err := store.JobsByStatus(ctx, queue.StatusCompleted)
	if err != nil {
		t.Fatalf("JobsByStatus failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected one completed job, got %d", len(jobs))
	}
	if jobs[0].ID != b.ID {
		t.Fatalf("expected job %d, got %d", b.ID, jobs[0].ID)
	}
}

func TestListSupportsStatusFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a := testsupport.NewJob(t, store, "/tmp/a.txt", "fp-a", 1)
	b := testsupport.NewJob(t, store, "/tmp/b.txt", "fp-b", 1)
	b.Status = queue.StatusCompleted
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	c := testsupport.NewJob(t, store, "/tmp/c.txt", "fp-c", 1)
	c.Status = queue.StatusFailed
	c.ErrorMessage = "boom"
	if err := store.Update(ctx, c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != a.ID || jobs[1].ID != b.ID || jobs[2].ID != c.ID {
		t.Fatalf("expected order A,B,C, got IDs %d,%d,%d", jobs[0].ID, jobs[1].ID, jobs[2].ID)
	}

	filtered, err := store.List(ctx, queue.StatusCompleted, queue.StatusFailed)
	if err != nil {
		t.Fatalf("Filtered list failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(filtered))
	}
	if filtered[0].ID != b.ID || filtered[1].ID != c.ID {
		t.Fatalf("unexpected filtered order: got %d,%d", filtered[0].ID, filtered[1].ID)
	}
}

func TestNextForStatusesReturnsOldest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	var first *queue.Job
	for i := 0; i < 3; i++ {
		job := testsupport.NewJob(t, store, fmt.Sprintf("/tmp/batch-%d.txt", i), fmt.Sprintf("fp-%d", i), 1)
		if first == nil {
			first = job
		}
	}

	next, err := store.NextForStatuses(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected oldest pending job %d, got %#v", first.ID, next)
	}

	none, err := store.NextForStatuses(ctx, queue.StatusCompleted)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no completed job, got %#v", none)
	}
}

func TestRetryFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a := testsupport.NewJob(t, store, "/tmp/a.txt", "fp-a", 1)
	b := testsupport.NewJob(t, store, "/tmp/b.txt", "fp-b", 1)
	a.SetFailed("boom")
	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	b.SetReview("unreadable input")
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed all: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 jobs retried, got %d", updated)
	}

	retried, err := store.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if retried.Status != queue.StatusPending {
		t.Fatalf("expected review job pending, got %s", retried.Status)
	}
	if retried.NeedsReview || retried.ReviewReason != "" {
		t.Fatalf("expected review flags cleared, got %#v", retried)
	}

	// Mark A failed again and retry targeted selection.
	a.SetFailed("boom again")
	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err = store.RetryFailed(ctx, a.ID)
	if err != nil {
		t.Fatalf("RetryFailed targeted: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 job retried, got %d", updated)
	}
}

func TestUpdateHeartbeat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job := testsupport.NewJob(t, store, "/tmp/hb.txt", "fp-hb", 1)
	job.Status = queue.StatusRunning
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := store.UpdateHeartbeat(ctx, job.ID); err != nil {
		t.Fatalf("UpdateHeartbeat: %v", err)
	}

	updated, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.LastHeartbeat == nil {
		t.Fatal("expected last heartbeat to be set")
	}
}

func TestReclaimStaleProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	past := time.Now().Add(-2 * time.Hour).UTC()

	stale := testsupport.NewJob(t, store, "/tmp/stale.txt", "fp-stale", 1)
	stale.Status = queue.StatusRunning
	stale.LastHeartbeat = &past
	if err := store.Update(ctx, stale); err != nil {
		t.Fatalf("Update stale: %v", err)
	}

	fresh := testsupport.NewJob(t, store, "/tmp/fresh.txt", "fp-fresh", 1)
	now := time.Now().UTC()
	fresh.Status = queue.StatusRunning
	fresh.LastHeartbeat = &now
	if err := store.Update(ctx, fresh); err != nil {
		t.Fatalf("Update fresh: %v", err)
	}

	count, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-1*time.Hour))
	if err != nil {
		t.Fatalf("ReclaimStaleProcessing: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 job reclaimed, got %d", count)
	}

	reclaimed, err := store.GetByID(ctx, stale.ID)
	if err != nil {
		t.Fatalf("GetByID stale: %v", err)
	}
	if reclaimed.Status != queue.StatusPending {
		t.Fatalf("expected stale job pending, got %s", reclaimed.Status)
	}
	if reclaimed.LastHeartbeat != nil {
		t.Fatalf("expected stale heartbeat cleared, got %v", reclaimed.LastHeartbeat)
	}

	unchanged, err := store.GetByID(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("GetByID fresh: %v", err)
	}
	if unchanged.Status != queue.StatusRunning {
		t.Fatalf("expected fresh job untouched, got %s", unchanged.Status)
	}
	if unchanged.LastHeartbeat == nil {
		t.Fatal("expected fresh heartbeat preserved")
	}
}

func TestUpdateProgressPreservesHeartbeat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job := testsupport.NewJob(t, store, "/tmp/progress.txt", "fp-progress", 10)
	job.Status = queue.StatusRunning
	past := time.Now().Add(-5 * time.Minute).UTC()
	job.LastHeartbeat = &past
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := store.UpdateHeartbeat(ctx, job.ID); err != nil {
		t.Fatalf("UpdateHeartbeat: %v", err)
	}

	before, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID before progress: %v", err)
	}
	if before.LastHeartbeat == nil {
		t.Fatal("expected heartbeat set before progress update")
	}
	origHeartbeat := *before.LastHeartbeat

	before.ProgressStage = "Classify"
	before.ProgressPercent = 42.5
	before.ProgressMessage = "Matching patterns"
	before.IdentifiedCount = 4
	if err := store.UpdateProgress(ctx, before); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	after, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID after progress: %v", err)
	}
	if after.LastHeartbeat == nil {
		t.Fatal("expected heartbeat preserved after progress update")
	}
	if !after.LastHeartbeat.Equal(origHeartbeat) {
		t.Fatalf("expected heartbeat unchanged, before %v after %v", origHeartbeat, after.LastHeartbeat)
	}
	if after.ProgressStage != "Classify" || after.ProgressMessage != "Matching patterns" {
		t.Fatalf("expected progress fields persisted, got stage=%q message=%q", after.ProgressStage, after.ProgressMessage)
	}
	if after.ProgressPercent != 42.5 {
		t.Fatalf("expected progress percent 42.5, got %f", after.ProgressPercent)
	}
	if after.IdentifiedCount != 4 {
		t.Fatalf("expected identified count 4, got %d", after.IdentifiedCount)
	}
}

func TestHealthCountsReviewSeparately(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewJob(t, store, "/tmp/p.txt", "fp-p", 1)
	running := testsupport.NewJob(t, store, "/tmp/r.txt", "fp-r", 1)
	running.Status = queue.StatusRunning
	if err := store.Update(ctx, running); err != nil {
		t.Fatalf("Update: %v", err)
	}
	review := testsupport.NewJob(t, store, "/tmp/v.txt", "fp-v", 1)
	review.SetReview("bad input")
	if err := store.Update(ctx, review); err != nil {
		t.Fatalf("Update: %v", err)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Total != 3 {
		t.Fatalf("expected total 3, got %d", health.Total)
	}
	if health.Pending != 1 || health.Processing != 1 || health.Review != 1 {
		t.Fatalf("unexpected health summary: %+v", health)
	}
}

func TestCheckHealthReportsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewJob(t, store, "/tmp/h.txt", "fp-h", 1)

	health, err := store.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("expected healthy database, got %+v", health)
	}
	if len(health.MissingColumns) != 0 {
		t.Fatalf("expected no missing columns, got %v", health.MissingColumns)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
	if health.TotalJobs != 1 {
		t.Fatalf("expected 1 job counted, got %d", health.TotalJobs)
	}
}

func TestClearFailedIncludesReview(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	failed := testsupport.NewJob(t, store, "/tmp/f.txt", "fp-f", 1)
	failed.SetFailed("boom")
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update: %v", err)
	}
	review := testsupport.NewJob(t, store, "/tmp/v.txt", "fp-v", 1)
	review.SetReview("unreadable")
	if err := store.Update(ctx, review); err != nil {
		t.Fatalf("Update: %v", err)
	}
	keep := testsupport.NewJob(t, store, "/tmp/k.txt", "fp-k", 1)

	removed, err := store.ClearFailed(ctx)
	if err != nil {
		t.Fatalf("ClearFailed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 jobs cleared, got %d", removed)
	}

	remaining, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != keep.ID {
		t.Fatalf("expected only pending job to remain, got %#v", remaining)
	}
}

func TestRemoveReportsMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job := testsupport.NewJob(t, store, "/tmp/rm.txt", "fp-rm", 1)

	removed, err := store.Remove(ctx, job.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Fatal("expected job to be removed")
	}

	removed, err = store.Remove(ctx, job.ID)
	if err != nil {
		t.Fatalf("Remove second call: %v", err)
	}
	if removed {
		t.Fatal("expected second remove to report missing")
	}
}
