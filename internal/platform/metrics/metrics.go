// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the event pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total domain events published, by topic and event type.",
		},
		[]string{"topic", "event_type"},
	)
	eventPublishFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_failures_total",
			Help: "Total domain event publish failures, by topic.",
		},
		[]string{"topic"},
	)
	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total domain events consumed, by topic and event type.",
		},
		[]string{"topic", "event_type"},
	)
	eventHandlerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_handler_failures_total",
			Help: "Total event handler failures, by topic.",
		},
		[]string{"topic"},
	)
	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Total events dropped for unknown event types, by topic.",
		},
		[]string{"topic"},
	)
)

// Register registers all collectors with the default registry.
// Call exactly once per process.
func Register() {
	prometheus.MustRegister(
		httpRequests,
		httpLatency,
		eventsPublished,
		eventPublishFailures,
		eventsConsumed,
		eventHandlerFailures,
		eventsDropped,
	)
}

// Handler returns the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records request count and latency for every handled request.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		status := strconv.Itoa(lrw.statusCode)
		httpRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpLatency.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}

// IncEventPublished counts a successfully published domain event.
func IncEventPublished(topic, eventType string) {
	eventsPublished.WithLabelValues(topic, eventType).Inc()
}

// IncEventPublishFailure counts a failed publish attempt.
func IncEventPublishFailure(topic string) {
	eventPublishFailures.WithLabelValues(topic).Inc()
}

// IncEventConsumed counts a dispatched inbound event.
func IncEventConsumed(topic, eventType string) {
	eventsConsumed.WithLabelValues(topic, eventType).Inc()
}

// IncEventHandlerFailure counts a handler error during dispatch.
func IncEventHandlerFailure(topic string) {
	eventHandlerFailures.WithLabelValues(topic).Inc()
}

// IncEventDropped counts an event discarded for an unknown type.
func IncEventDropped(topic string) {
	eventsDropped.WithLabelValues(topic).Inc()
}

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
