// Package otel provides OpenTelemetry instrumentation for factpanel.
package otel

import "context"

// ShutdownFunc flushes and stops telemetry exporters.
type ShutdownFunc func(context.Context) error

// InitTracer sets up tracing for the service. No exporter is wired yet,
// so spans created through otelhttp stay no-ops until a provider is
// configured here.
func InitTracer(serviceName string) ShutdownFunc {
	_ = serviceName
	return func(context.Context) error { return nil }
}
