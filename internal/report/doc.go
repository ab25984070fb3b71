// Package report projects classification results into the output formats the
// CLI and API expose.
//
// Three formats exist: text renders labeled per-match lines for terminals and
// optionally colorizes them, object renders the structured records as a table,
// and json emits an indented array that mirrors the native result shape
// without truncation. ParseFormat resolves user-supplied selectors
// case-insensitively and rejects anything it does not recognize.
package report
