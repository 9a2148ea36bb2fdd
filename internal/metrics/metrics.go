package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotsAppliedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servicetimes_snapshots_applied_total",
		Help: "Total number of backend snapshots reconciled into the row store.",
	})

	RowsPreservedEditingTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servicetimes_rows_preserved_editing_total",
		Help: "Total number of rows kept local during a merge because they were being edited.",
	})

	IntentsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "servicetimes_intents_emitted_total",
		Help: "Total number of mutation intents emitted to the sync gateway, by verb.",
	},
		[]string{"verb"},
	)

	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "servicetimes_validation_failures_total",
		Help: "Total number of submissions rejected by the validation rules, by reason.",
	},
		[]string{"reason"},
	)

	RowsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servicetimes_rows_submitted_total",
		Help: "Total number of rows validated and sent for persistence.",
	})

	OpenRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "servicetimes_open_rows",
		Help: "Current number of open rows in the local store.",
	})

	AuditDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servicetimes_audit_dropped_total",
		Help: "Total number of audit intents dropped because the trail was saturated.",
	})
)
