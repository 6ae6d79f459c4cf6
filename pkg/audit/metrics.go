package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonQueueFull = "queue_full"
	reasonNoChannel = "no_log_channel"
	reasonClosed    = "closed"
	reasonStopped   = "stopped"
)

var (
	deliveredEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_delivered_entries",
			Help: "Total number of audit entries delivered",
		},
	)

	droppedEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_dropped_entries",
			Help: "Total number of audit entries dropped before delivery",
		},
		[]string{"reason"},
	)

	failedDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_failed_deliveries",
			Help: "Total number of audit entries that could not be delivered",
		},
	)
)
