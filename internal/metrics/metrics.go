package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepsTotal tracks reminder sweeps by result
	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifymed_sweeps_total",
			Help: "Total number of reminder sweeps by result",
		},
		[]string{"result"},
	)

	// SweepDuration tracks how long a full sweep takes
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notifymed_sweep_duration_seconds",
			Help:    "Reminder sweep duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RemindersSent tracks reminder texts sent
	RemindersSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifymed_reminders_sent_total",
			Help: "Total number of reminder texts sent",
		},
	)

	// RemindersSkipped tracks schedules skipped during sweeps by reason
	RemindersSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifymed_reminders_skipped_total",
			Help: "Total number of schedules skipped during sweeps",
		},
		[]string{"reason"},
	)

	// RemindersFailed tracks reminders that could not be sent by reason
	RemindersFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifymed_reminders_failed_total",
			Help: "Total number of reminders that could not be sent",
		},
		[]string{"reason"},
	)

	// DoseEventsConsumed tracks dose-logged events consumed from the bus
	DoseEventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifymed_dose_events_consumed_total",
			Help: "Total number of dose-logged events consumed",
		},
		[]string{"result"},
	)

	// RateLimitExceeded tracks rate limit violations
	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifymed_rate_limit_exceeded_total",
			Help: "Total number of rate limit exceeded events",
		},
		[]string{"user_id"},
	)
)
