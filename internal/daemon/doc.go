// Package daemon coordinates the long-running mylarsensor process.
//
// It wires configuration, the backend and catalog clients, the metadata
// cache, and the sensor set into a single lifecycle with flock-based
// locking to prevent multiple instances. The daemon runs preflight checks
// at startup, refreshes every monitored sensor on a fixed schedule, emits
// availability notifications on transitions, and serves the local HTTP API.
//
// Keep orchestration logic here: the refresh pipeline itself lives in the
// sensor package while the daemon focuses on startup, shutdown, and
// scheduling.
package daemon
