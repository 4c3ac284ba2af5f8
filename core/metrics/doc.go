// Package metrics defines how menu generations are observed. Sinks like the
// Prometheus and InfluxDB implementations in infra/metrics record one
// GenerationEvent per request, successful or not, and can be combined with
// NewMultiSink. The factory helpers return a MultiSink automatically when
// multiple sinks are configured.
package metrics
