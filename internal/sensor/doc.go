// Package sensor implements the four comic-collection sensor variants:
// recent download history, upcoming releases, and the detailed forms of
// each that attach catalog metadata and render card payloads suitable for
// a dashboard. A Sensor owns one variant and exposes its count, state and
// attribute map through Snapshot; Refresh runs a full polling cycle.
package sensor
