/*
Package tracing provides request tracing for the debug server.

# Overview

This package implements lightweight tracing for requests against the
debug surface. It follows OpenTelemetry concepts but with a minimal
implementation tailored to a single-process daemon: spans are logged,
not exported.

# Features

- Trace context propagation via HTTP headers
- Span creation with parent-child relationships
- Automatic trace ID generation (prefixed ULIDs)
- HTTP middleware for automatic instrumentation
- Structured logging integration
- Low overhead with buffered span collection

# Usage

	// Create tracer
	tracer := tracing.New("usherd", logger)

	// HTTP middleware
	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

	span.SetTag("key", "value")

# Trace Format

Traces use standard HTTP headers for propagation:
- X-Trace-ID: Unique identifier for entire request flow
- X-Span-ID: Identifier for current operation
*/
package tracing
