package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EmailsSent counts messages accepted by a delivery transport.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "madrona_emails_sent_total",
		Help: "Emails accepted by a delivery transport.",
	}, []string{"transport"})

	// EmailDeliveryFailures counts sends refused or rejected downstream.
	EmailDeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "madrona_email_delivery_failures_total",
		Help: "Emails refused by policy or rejected by the delivery provider.",
	}, []string{"transport", "reason"})

	// ReportedEvents counts messages pushed to the error-tracking sink.
	ReportedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "madrona_reported_events_total",
		Help: "Events recorded by the error-tracking sink.",
	})

	// AnalyticsQueries counts requests made to the search/analytics backend.
	AnalyticsQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "madrona_analytics_queries_total",
		Help: "Queries issued to the search/analytics backend.",
	})
)
