package marketing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_automation_runs_total",
			Help: "Number of automation runs by outcome",
		},
		[]string{"status"}, // ok, busy or error
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marketing_automation_run_duration_seconds",
			Help:    "Duration of a full automation run in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	emailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_automation_emails_sent_total",
			Help: "Number of campaign emails sent",
		},
		[]string{"campaign"},
	)

	sendFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_automation_send_failures_total",
			Help: "Number of failed campaign dispatches or state commits",
		},
		[]string{"campaign"},
	)
)
