package api

import "hashhound/internal/classify"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Job describes a queue entry in a transport-friendly format.
type Job struct {
	ID                int64       `json:"id"`
	Title             string      `json:"title"`
	SourcePath        string      `json:"sourcePath"`
	Status            string      `json:"status"`
	Progress          JobProgress `json:"progress"`
	ErrorMessage      string      `json:"errorMessage,omitempty"`
	CreatedAt         string      `json:"createdAt,omitempty"`
	UpdatedAt         string      `json:"updatedAt,omitempty"`
	Fingerprint       string      `json:"fingerprint,omitempty"`
	HashCount         int64       `json:"hashCount"`
	IdentifiedCount   int64       `json:"identifiedCount"`
	UnidentifiedCount int64       `json:"unidentifiedCount"`
	ResultPath        string      `json:"resultPath,omitempty"`
	NeedsReview       bool        `json:"needsReview"`
	ReviewReason      string      `json:"reviewReason,omitempty"`
}

// JobProgress captures stage progress information for a queue entry.
type JobProgress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
}

// RunnerStatus summarizes job runner execution state.
type RunnerStatus struct {
	Running    bool           `json:"running"`
	QueueStats map[string]int `json:"queueStats"`
	LastError  string         `json:"lastError,omitempty"`
	LastJob    *Job           `json:"lastJob,omitempty"`
}

// CheckResult mirrors a preflight probe outcome.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool          `json:"running"`
	PID          int           `json:"pid"`
	QueueDBPath  string        `json:"queueDbPath"`
	LockFilePath string        `json:"lockFilePath"`
	Runner       RunnerStatus  `json:"runner"`
	Checks       []CheckResult `json:"checks"`
}

// HashType describes one registry entry for API consumers. Pattern is
// included so callers can see exactly what shape an entry accepts.
type HashType struct {
	Name        string `json:"name"`
	Pattern     string `json:"pattern"`
	Rarity      string `json:"rarity"`
	Description string `json:"description"`
	FamilySize  int    `json:"familySize"`
}

// HashTypeListResponse wraps the registry catalog.
type HashTypeListResponse struct {
	Types []HashType `json:"types"`
}

// ClassifyRequest carries hash values for synchronous classification.
type ClassifyRequest struct {
	Hashes []string `json:"hashes"`
}

// ClassifyResponse returns one result per submitted hash, in input order.
type ClassifyResponse struct {
	Results []classify.Result `json:"results"`
}

// SubmitJobRequest enqueues a hash list for asynchronous classification.
// Path and Hashes are mutually exclusive; Title only applies to inline
// submissions.
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

// JobListResponse wraps a collection of jobs for API responses.
type JobListResponse struct {
	Jobs []Job `json:"jobs"`
}

// JobResponse wraps a single job.
type JobResponse struct {
	Job Job `json:"job"`
}

// LogTailResponse returns log lines and the next read offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
