package tickets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	transitionOpened    = "opened"
	transitionClosed    = "closed"
	transitionDuplicate = "duplicate"
	transitionFailed    = "failed"
)

// ticketTransitions counts ticket lifecycle transitions.
var ticketTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tickets_transitions_total",
		Help: "Total number of ticket lifecycle transitions",
	},
	[]string{"transition", "category"},
)
