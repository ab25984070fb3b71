package testsupport

import (
	"context"
	"testing"

	"hashhound/internal/config"
	"hashhound/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewJob creates a pending classification job for tests using the provided
// store. The title is derived from the source path.
func NewJob(t testing.TB, store *queue.Store, sourcePath, fingerprint string, hashCount int64) *queue.Job {
	t.Helper()

	job, err := store.NewJob(context.Background(), "", sourcePath, fingerprint, hashCount)
	if err != nil {
		t.Fatalf("store.NewJob: %v", err)
	}
	return job
}
