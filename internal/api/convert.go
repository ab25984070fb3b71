package api

import (
	"sort"

	"hashhound/internal/hashtype"
	"hashhound/internal/jobs"
	"hashhound/internal/queue"
)

// FromJob converts a queue record to its API representation.
func FromJob(job *queue.Job) Job {
	if job == nil {
		return Job{}
	}

	dto := Job{
		ID:         job.ID,
		Title:      job.Title,
		SourcePath: job.SourcePath,
		Status:     string(job.Status),
		Progress: JobProgress{
			Stage:   job.ProgressStage,
			Percent: job.ProgressPercent,
			Message: job.ProgressMessage,
		},
		ErrorMessage:      job.ErrorMessage,
		Fingerprint:       job.Fingerprint,
		HashCount:         job.HashCount,
		IdentifiedCount:   job.IdentifiedCount,
		UnidentifiedCount: job.UnidentifiedCount,
		ResultPath:        job.ResultPath,
		NeedsReview:       job.NeedsReview,
		ReviewReason:      job.ReviewReason,
	}
	if !job.CreatedAt.IsZero() {
		dto.CreatedAt = job.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !job.UpdatedAt.IsZero() {
		dto.UpdatedAt = job.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromJobs converts a slice of queue records, skipping nil entries.
func FromJobs(records []*queue.Job) []Job {
	if len(records) == 0 {
		return nil
	}
	out := make([]Job, 0, len(records))
	for _, job := range records {
		if job == nil {
			continue
		}
		out = append(out, FromJob(job))
	}
	return out
}

// FromRunnerStatus converts a runner status summary to its API shape.
func FromRunnerStatus(summary jobs.StatusSummary) RunnerStatus {
	status := RunnerStatus{
		Running:   summary.Running,
		LastError: summary.LastError,
	}
	if len(summary.QueueStats) > 0 {
		status.QueueStats = make(map[string]int, len(summary.QueueStats))
		for key, count := range summary.QueueStats {
			status.QueueStats[string(key)] = count
		}
	}
	if summary.LastJob != nil {
		job := FromJob(summary.LastJob)
		status.LastJob = &job
	}
	return status
}

// FromRegistry projects the registry catalog for API consumers, preserving
// catalog order.
func FromRegistry(registry *hashtype.Registry) []HashType {
	if registry == nil {
		return nil
	}
	entries := registry.Entries()
	out := make([]HashType, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HashType{
			Name:        entry.Name,
			Pattern:     entry.Pattern,
			Rarity:      string(entry.Rarity),
			Description: entry.Description,
			FamilySize:  registry.FamilySize(entry.Pattern),
		})
	}
	return out
}

// MergeQueueStats normalizes queue stats so every known status has a key,
// returned in lifecycle order followed by any unknown statuses.
func MergeQueueStats(stats map[queue.Status]int) map[string]int {
	merged := make(map[string]int, len(queue.AllStatuses()))
	for _, status := range queue.AllStatuses() {
		merged[string(status)] = 0
	}
	for status, count := range stats {
		merged[string(status)] = count
	}
	return merged
}

// SortedStatusKeys returns stat keys ordered by the queue lifecycle, with
// unrecognized statuses appended alphabetically.
func SortedStatusKeys(stats map[string]int) []string {
	seen := make(map[string]struct{}, len(stats))
	keys := make([]string, 0, len(stats))
	for _, status := range queue.AllStatuses() {
		if _, ok := stats[string(status)]; ok {
			keys = append(keys, string(status))
			seen[string(status)] = struct{}{}
		}
	}
	extras := make([]string, 0)
	for key := range stats {
		if _, ok := seen[key]; !ok {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}
