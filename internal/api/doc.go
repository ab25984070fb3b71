// Package api defines the transport DTOs shared by the daemon HTTP surface
// and the IPC protocol, plus the read/mutate services the handlers delegate
// to.
//
// DTOs are flat JSON-friendly projections of queue jobs, daemon status, and
// classification results. Conversions from internal models live here so the
// HTTP server and the IPC server render identical shapes.
package api
