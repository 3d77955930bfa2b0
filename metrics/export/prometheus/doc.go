// Package prometheus provides Prometheus collectors for portalsession metrics.
//
// [NewPrometheusExporter] accepts a [portalsession.Manager] and exposes an [http.Handler]
// that renders all portalsession counters and histograms in Prometheus text exposition
// format. Counter names are prefixed portalsession_*_total; the single histogram is
// portalsession_identity_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate manager state.
package prometheus
