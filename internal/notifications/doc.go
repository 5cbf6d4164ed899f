// Package notifications delivers daemon events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// mylarsensor.toml and gracefully degrades to a no-op when notifications are
// disabled. The daemon announces availability transitions through the Service
// interface so alternative transports can be dropped in without touching the
// polling loop.
package notifications
