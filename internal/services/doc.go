// Package services defines shared utilities consumed by the job runner and
// the daemon surfaces.
//
// Key responsibilities:
//   - Context helpers that stamp queue job IDs, source names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent queue statuses (failed vs review).
//
// Use these helpers when wiring new service logic so operational behaviour
// (error handling, observability, retries) stays uniform across the system.
package services
