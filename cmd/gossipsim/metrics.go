package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// simMetrics exposes the run's progress as Prometheus metrics when
// --metrics-addr is set.
type simMetrics struct {
	elementsInserted prometheus.Counter
	elementsLost     prometheus.Counter
	deliveryLatency  prometheus.Histogram
}

func newSimMetrics() *simMetrics {
	return &simMetrics{
		elementsInserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gossipsim_elements_inserted_total",
			Help: "Total number of elements inserted into the gossip network.",
		}),
		elementsLost: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gossipsim_elements_lost_total",
			Help: "Total number of elements that never appeared at their target node before the loss timeout.",
		}),
		deliveryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gossipsim_delivery_latency_seconds",
			Help:    "Time from inserting an element at its source node to observing it at its target node.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
