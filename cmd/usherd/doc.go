// Package main is the entry point for the usherd seat daemon.
//
// usherd tracks multi-seat state for a machine: which seats exist,
// which sessions and devices are attached to them, and which session
// owns the shared virtual console. Session and device lifecycles are
// driven by an embedding session manager; this daemon owns the seat
// side of that state.
//
// The daemon provides:
//   - Seat registry with start/stop/destroy lifecycle
//   - Virtual console (VT) ownership tracking for the console seat
//   - Per-seat state files under the runtime directory
//   - Garbage collection of released seats
//   - Read-only debug HTTP server with Prometheus metrics
//
// Configuration:
//   - Environment variables (USHERD_* prefix)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./usherd
//
//	# Development mode (colored logs, debug level, local runtime dir)
//	./usherd -dev -runtime-dir /tmp/usherd
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
