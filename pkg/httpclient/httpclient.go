// Package httpclient builds instrumented HTTP clients from a chain of
// client-side round trippers: request identification, request logging, and
// OpenTelemetry instrumentation on every outbound call.
package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Middleware wraps an http.RoundTripper with additional behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to the http.RoundTripper interface.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Wrap applies the middlewares to base so the first middleware is the
// outermost on the resulting transport.
func Wrap(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// Config holds the settings for a constructed client.
type Config struct {
	// Timeout bounds each outbound request end to end.
	Timeout time.Duration

	// Logger receives per-request log lines. Nil disables request logging.
	Logger *zap.Logger

	// TracerProvider and MeterProvider feed the otelhttp transport.
	// Nil values fall back to the global providers.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// New builds an *http.Client whose transport injects a request id, logs
// every call, and records OpenTelemetry spans and metrics.
func New(cfg Config) *http.Client {
	mws := []Middleware{RequestID()}
	if cfg.Logger != nil {
		mws = append(mws, LogRequests(cfg.Logger))
	}
	mws = append(mws, Instrument(cfg.TracerProvider, cfg.MeterProvider))

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: Wrap(nil, mws...),
	}
}

// Instrument returns a middleware that wraps the transport with otelhttp,
// producing a span and request metrics per outbound call.
func Instrument(tp trace.TracerProvider, mp metric.MeterProvider) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		opts := []otelhttp.Option{}
		if tp != nil {
			opts = append(opts, otelhttp.WithTracerProvider(tp))
		}
		if mp != nil {
			opts = append(opts, otelhttp.WithMeterProvider(mp))
		}
		return otelhttp.NewTransport(next, opts...)
	}
}
