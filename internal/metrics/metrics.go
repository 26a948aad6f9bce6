// Package metrics exposes Prometheus counters/histograms for the pipeline's
// /stats endpoint, grounded on pricing_service's use of promauto in
// DynamicPricingEngine.go.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repricer_events_ingested_total",
		Help: "Inbound offer-change events accepted at ingress, by source.",
	}, []string{"source"})

	EventsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repricer_events_skipped_total",
		Help: "Events that did not result in a price change, by reason.",
	}, []string{"reason"})

	EventsErrored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repricer_events_errored_total",
		Help: "Events that failed pipeline processing, by error kind.",
	}, []string{"kind"})

	PricesCalculated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repricer_prices_calculated_total",
		Help: "Successful price calculations persisted to the store.",
	})

	ProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "repricer_event_processing_duration_seconds",
		Help:    "End-to-end pipeline processing time per event.",
		Buckets: prometheus.DefBuckets,
	})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "repricer_queue_inflight_messages",
		Help: "Messages currently checked out from the queue and being worked.",
	})

	ResetSweepProducts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repricer_reset_sweep_products_total",
		Help: "Products touched by a reset-scheduler sweep, by outcome.",
	}, []string{"outcome"})
)

// Outcome increments the appropriate counters for a pipeline Result,
// classifying by the Outcome's Kind.
func Outcome(source string, skipped bool, errored bool, reason string, kind string) {
	EventsIngested.WithLabelValues(source).Inc()
	switch {
	case errored:
		EventsErrored.WithLabelValues(kind).Inc()
	case skipped:
		EventsSkipped.WithLabelValues(reason).Inc()
	default:
		PricesCalculated.Inc()
	}
}
