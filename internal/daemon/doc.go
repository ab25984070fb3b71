// Package daemon coordinates the long-lived hashhound process: the job
// runner, the local HTTP API, and single-instance enforcement via a lock
// file.
//
// The daemon owns no classification logic of its own. It wraps the jobs
// runner for queued work, an intake for submissions, and a classifier
// snapshot for synchronous requests, exposing all three to the IPC and HTTP
// surfaces. Start acquires the flock and launches the runner and API server;
// Stop releases both. Status composes runner state with preflight probes so
// callers see one consistent snapshot.
package daemon
