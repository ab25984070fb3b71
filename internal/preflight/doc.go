// Package preflight provides readiness checks for the filesystem paths,
// queue database, and type catalog that Hashhound depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup and logs every failure before the
//     queue runner begins polling, so a broken install fails loudly instead
//     of parking every submitted job.
//   - The CLI "hashhound status" command and the daemon /api/status handler
//     use individual check functions to display health.
package preflight
