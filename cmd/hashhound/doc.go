// Package main hosts the hashhound CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into local
// classifications, IPC calls against the daemon, queue maintenance
// operations, log tailing, and configuration scaffolding. It centralizes
// configuration resolution and socket discovery so subcommands can focus on
// user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
