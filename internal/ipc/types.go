package ipc

import (
	"hashhound/internal/api"
	"hashhound/internal/classify"
)

// Job mirrors the HTTP API job DTO for internal IPC callers.
type Job = api.Job

// CheckResult mirrors a preflight probe outcome.
type CheckResult = api.CheckResult

// PingRequest probes daemon liveness.
type PingRequest struct{}

// PingResponse reports the responding daemon process.
type PingResponse struct {
	PID int `json:"pid"`
}

// StopRequest stops background processing.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/runner status information.
type StatusResponse struct {
	Running     bool           `json:"running"`
	PID         int            `json:"pid"`
	QueueStats  map[string]int `json:"queue_stats"`
	LastError   string         `json:"last_error"`
	LastJob     *Job           `json:"last_job"`
	LockPath    string         `json:"lock_path"`
	QueueDBPath string         `json:"queue_db_path"`
	Checks      []CheckResult  `json:"checks"`
}

// ClassifyRequest carries hash values for synchronous classification.
type ClassifyRequest struct {
	Hashes []string `json:"hashes"`
}

// ClassifyResponse returns one result per submitted hash, in input order.
type ClassifyResponse struct {
	Results []classify.Result `json:"results"`
}

// SubmitJobRequest enqueues a hash list. Path and Hashes are mutually
// exclusive; Title only applies to inline values.
type SubmitJobRequest struct {
	Path   string   `json:"path,omitempty"`
	Title  string   `json:"title,omitempty"`
	Hashes []string `json:"hashes,omitempty"`
}

// SubmitJobResponse reports the enqueued (or matching duplicate) job.
type SubmitJobResponse struct {
	Job       Job  `json:"job"`
	Duplicate bool `json:"duplicate"`
}

// ListJobsRequest filters job listing by status.
type ListJobsRequest struct {
	Statuses []string `json:"statuses"`
}

// ListJobsResponse contains queue entries.
type ListJobsResponse struct {
	Jobs []Job `json:"jobs"`
}

// DescribeJobRequest fetches a single job by id.
type DescribeJobRequest struct {
	ID int64 `json:"id"`
}

// DescribeJobResponse contains a single queue entry.
type DescribeJobResponse struct {
	Job Job `json:"job"`
}

// Clear scopes accepted by ClearJobsRequest.
const (
	ClearScopeAll       = "all"
	ClearScopeCompleted = "completed"
	ClearScopeFailed    = "failed"
)

// ClearJobsRequest removes jobs. An empty scope defaults to completed.
type ClearJobsRequest struct {
	Scope string `json:"scope"`
}

// ClearJobsResponse reports number of removed entries.
type ClearJobsResponse struct {
	Removed int64 `json:"removed"`
}

// RetryJobsRequest retries failed and review jobs. Empty list means all.
type RetryJobsRequest struct {
	IDs []int64 `json:"ids"`
}

// RetryJobsResponse reports number of retried jobs.
type RetryJobsResponse struct {
	Updated int64 `json:"updated"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// QueueHealthRequest fetches aggregate diagnostics.
type QueueHealthRequest struct{}

// QueueHealthResponse reports queue health information.
type QueueHealthResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
	Review     int `json:"review"`
	Completed  int `json:"completed"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	SchemaVersion    string   `json:"schema_version"`
	TableExists      bool     `json:"table_exists"`
	ColumnsPresent   []string `json:"columns_present"`
	MissingColumns   []string `json:"missing_columns"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalJobs        int      `json:"total_jobs"`
	Error            string   `json:"error"`
}
