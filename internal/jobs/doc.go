// Package jobs turns queued submissions into classification results.
//
// The Intake validates submissions (files on disk, or inline values spooled
// under the data directory), fingerprints their content for duplicate
// detection, and inserts pending queue jobs. The Runner polls the queue,
// reclaims stale work via heartbeats, classifies each job's hash list against
// the registry, writes a JSON result file, and records counts and failure
// metadata on the job row.
//
// Failures are routed through services.FailureStatus: broken input or
// configuration parks the job for review, everything else fails the job and
// stays eligible for retry.
package jobs
