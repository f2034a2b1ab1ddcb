// Package metrics owns the Prometheus registry and the dispatcher collectors
// served on the daemon's /metrics endpoint.
package metrics
