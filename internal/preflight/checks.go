package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"hashhound/internal/config"
	"hashhound/internal/hashtype"
	"hashhound/internal/queue"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog verifies that every catalog entry's pattern compiled and that
// ambiguity-family markings are consistent with the pattern text.
func CheckCatalog(cfg *config.Config) Result {
	const name = "Type catalog"

	registry := cfg.BuildRegistry()
	entries := registry.Entries()
	for _, entry := range entries {
		if err := entry.PatternErr(); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("entry %s: pattern does not compile: %v", entry.Name, err)}
		}
		if entry.Shared() != (registry.FamilySize(entry.Pattern) > 1) {
			return Result{Name: name, Detail: fmt.Sprintf("entry %s: ambiguity family marking is inconsistent", entry.Name)}
		}
	}

	custom := len(entries) - hashtype.Builtin().Len()
	detail := fmt.Sprintf("%d types", len(entries))
	if custom > 0 {
		detail = fmt.Sprintf("%d types (%d custom)", len(entries), custom)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckDatabase probes an already-open queue store and summarizes its health.
// The daemon status handler uses this against its live store.
func CheckDatabase(ctx context.Context, store *queue.Store) Result {
	const name = "Queue database"

	if store == nil {
		return Result{Name: name, Detail: "store not open"}
	}
	health, err := store.CheckHealth(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return summarizeDatabaseHealth(health)
}

// CheckDatabaseFromConfig evaluates queue database health from config alone.
// A database that has never been created passes; the daemon creates it on
// first start, so its absence only means nothing has been submitted yet.
func CheckDatabaseFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Queue database"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	dbPath := cfg.DatabasePath()
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: "Not initialized"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", dbPath, err)}
	}

	store, err := queue.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", dbPath, err)}
	}
	defer store.Close()

	return CheckDatabase(ctx, store)
}

func summarizeDatabaseHealth(health queue.DatabaseHealth) Result {
	const name = "Queue database"

	switch {
	case !health.DatabaseExists:
		return Result{Name: name, Passed: true, Detail: "Not initialized"}
	case !health.DatabaseReadable:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", health.DBPath, health.Error)}
	case !health.TableExists:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: jobs table missing)", health.DBPath)}
	case len(health.MissingColumns) > 0:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: missing columns: %s)", health.DBPath, strings.Join(health.MissingColumns, ", "))}
	case !health.IntegrityCheck:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: integrity check failed)", health.DBPath)}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d jobs, schema v%s)", health.DBPath, health.TotalJobs, health.SchemaVersion)}
	}
}
