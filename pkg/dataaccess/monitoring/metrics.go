package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreLatency is the duration of store queries.
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_store_latency",
			Help: "Duration of store queries",
		},
		[]string{"driver", "dal", "query", "collection"},
	)

	// StoreTotalRequests is the total number of store requests.
	StoreTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_store_total_requests",
			Help: "Total number of store requests",
		},
		[]string{"driver", "dal", "query", "collection"},
	)

	// StoreErrors is the total number of failed store requests.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_store_errors",
			Help: "Total number of failed store requests",
		},
		[]string{"driver", "dal", "query", "collection"},
	)
)

// Observe counts a store request and returns a function that records its latency.
func Observe(driver, dal, query, collection string) func() {
	StoreTotalRequests.WithLabelValues(driver, dal, query, collection).Inc()
	t := prometheus.NewTimer(StoreLatency.WithLabelValues(driver, dal, query, collection))
	return func() {
		t.ObserveDuration()
	}
}

// Failed counts a failed store request.
func Failed(driver, dal, query, collection string) {
	StoreErrors.WithLabelValues(driver, dal, query, collection).Inc()
}
