package jobs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hashhound/internal/config"
	"hashhound/internal/logging"
	"hashhound/internal/queue"
	"hashhound/internal/services"
)

// AdHocTitle names spooled submissions that arrive without a source file.
const AdHocTitle = "Ad Hoc Submission"

// Intake validates and enqueues classification submissions.
type Intake struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

// NewIntake constructs an Intake bound to the queue store.
func NewIntake(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Intake {
	return &Intake{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "intake"),
	}
}

// SubmitFile fingerprints a hash list on disk and enqueues it. When a job
// with the same content fingerprint already exists, that job is returned with
// duplicate set and no new row is created.
func (i *Intake) SubmitFile(ctx context.Context, path string) (*queue.Job, bool, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, false, services.Wrap(services.ErrValidation, "intake", "submit file", "source path is required", nil)
	}
	absPath, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, false, services.Wrap(services.ErrValidation, "intake", "resolve source path", "invalid path", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, false, services.Wrap(services.ErrNotFound, "intake", "stat source file", "input not readable", err)
	}
	if info.IsDir() {
		return nil, false, services.Wrap(services.ErrValidation, "intake", "stat source file", fmt.Sprintf("source path %q is a directory", absPath), nil)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, false, services.Wrap(services.ErrValidation, "intake", "read source file", "input not readable", err)
	}
	hashes := SplitLines(string(content))
	if len(hashes) == 0 {
		return nil, false, services.Wrap(services.ErrValidation, "intake", "inspect input", "no hash values found", nil)
	}
	return i.enqueue(ctx, queue.DeriveTitle(absPath), absPath, hashes)
}

// SubmitValues spools inline hash values under the data directory and
// enqueues the spooled file, so the runner has a single file-based input
// path. An empty title falls back to AdHocTitle.
func (i *Intake) SubmitValues(ctx context.Context, title string, values []string) (*queue.Job, bool, error) {
	hashes := normalizeValues(values)
	if len(hashes) == 0 {
		return nil, false, services.Wrap(services.ErrValidation, "intake", "inspect input", "no hash values found", nil)
	}
	if strings.TrimSpace(title) == "" {
		title = AdHocTitle
	}

	spoolDir := filepath.Join(i.cfg.Paths.DataDir, "spool")
	if err := os.MkdirAll(spoolDir, 0o755); err != nil {
		return nil, false, services.Wrap(services.ErrTransient, "intake", "prepare spool dir", "could not create spool directory", err)
	}
	spoolPath := filepath.Join(spoolDir, fmt.Sprintf("submission-%d.txt", time.Now().UTC().UnixNano()))
	if err := os.WriteFile(spoolPath, []byte(strings.Join(hashes, "\n")+"\n"), 0o644); err != nil {
		return nil, false, services.Wrap(services.ErrTransient, "intake", "spool submission", "could not write spool file", err)
	}
	return i.enqueue(ctx, title, spoolPath, hashes)
}

func (i *Intake) enqueue(ctx context.Context, title, sourcePath string, hashes []string) (*queue.Job, bool, error) {
	fingerprint := Fingerprint(hashes)
	existing, err := i.store.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, false, services.Wrap(services.ErrTransient, "intake", "check duplicates", "queue lookup failed", err)
	}
	if existing != nil {
		i.logger.Info("duplicate submission",
			logging.Int64(logging.FieldJobID, existing.ID),
			logging.String(logging.FieldEventType, "submission_duplicate"),
			logging.Int64("duplicate_of", existing.ID),
			logging.String("job_title", existing.Title),
		)
		return existing, true, nil
	}

	job, err := i.store.NewJob(ctx, title, sourcePath, fingerprint, int64(len(hashes)))
	if err != nil {
		return nil, false, services.Wrap(services.ErrTransient, "intake", "enqueue job", "could not insert job", err)
	}
	i.logger.Info("job queued",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldSource, filepath.Base(sourcePath)),
		logging.String(logging.FieldEventType, "job_queued"),
		logging.String("job_title", job.Title),
		logging.Int64("hash_count", job.HashCount),
	)
	return job, false, nil
}

// Fingerprint derives the queue dedup key from normalized submission content.
// Two submissions with the same hash lines share a fingerprint regardless of
// where the file lives.
func Fingerprint(hashes []string) string {
	h := sha256.New()
	for _, value := range hashes {
		h.Write([]byte(value))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SplitLines returns the trimmed, non-empty lines of a hash list.
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func normalizeValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}
