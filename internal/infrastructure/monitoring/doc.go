/*
Package monitoring provides metrics collection for the seat daemon.

# Overview

This package implements Prometheus-based metrics collection, tracking
seat lifecycle transitions, console ownership changes, state
persistence, and debug server HTTP traffic.

# Features

- Seat registry gauges (total, started, GC queue depth)
- Lifecycle counters (starts, stops, sessions stopped, GC collections)
- Console tracking counters (VT switches, ACL failures)
- Persistence counters (state saves, save errors)
- Debug server HTTP request metrics

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record seat transitions
	metrics.IncSeatStarts()
	metrics.SetSeats(3)

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
