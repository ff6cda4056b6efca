package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesProcessed The total number of processed messages (counter)
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler", "event_name"},
	)

	// MessagesProcessingFailed total number of message processing failures (counter)
	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler", "event_name"},
	)

	// MessagesProcessingDuration The total time spent processing messages (summary with quantiles 0.5, 0.9, and 0.99)
	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler", "event_name"},
	)
)

var (
	// TicketReservations counts reservation attempts by outcome
	TicketReservations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tickets",
			Name:      "reservations_total",
			Help:      "The total number of ticket reservation attempts",
		},
		[]string{"outcome"},
	)

	// CommandDuration time spent executing commands, including the database commit
	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tickets",
			Name:      "command_duration_seconds",
			Help:      "The time spent executing commands",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command", "outcome"},
	)
)

// business counters, fed by the event handlers
var (
	ShowsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tickets",
		Name:      "shows_published_total",
		Help:      "The total number of published shows",
	})

	ShowsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tickets",
		Name:      "shows_cancelled_total",
		Help:      "The total number of cancelled shows",
	})

	TicketsOnSale = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tickets",
		Name:      "tickets_put_on_sale_total",
		Help:      "The total number of tickets created for published shows",
	})

	TicketsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tickets",
		Name:      "tickets_reserved_total",
		Help:      "The total number of reserved tickets",
	})

	TicketsSold = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tickets",
		Name:      "tickets_sold_total",
		Help:      "The total number of sold tickets",
	})

	Revenue = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tickets",
		Name:      "revenue_total",
		Help:      "The sum of prices of sold tickets",
	})
)
