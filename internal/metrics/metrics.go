package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PackagesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parcelkeep_packages_created_total",
		Help: "Total number of packages created, by source.",
	},
		[]string{"source"},
	)

	PackagesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcelkeep_packages_deleted_total",
		Help: "Total number of packages deleted.",
	})

	RecipientsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parcelkeep_recipients_created_total",
		Help: "Total number of recipients created, by source.",
	},
		[]string{"source"},
	)

	RecipientsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcelkeep_recipients_deleted_total",
		Help: "Total number of recipients deleted.",
	})

	TrackingAllocationRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parcelkeep_tracking_allocation_retries_total",
		Help: "Total number of tracking number allocations retried after a unique conflict.",
	})

	AttachmentsStoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parcelkeep_attachments_stored_total",
		Help: "Total number of attachments stored, by owner and kind.",
	},
		[]string{"owner", "kind"},
	)

	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parcelkeep_validation_failures_total",
		Help: "Total number of rejected inputs, by field.",
	},
		[]string{"field"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parcelkeep_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parcelkeep_http_request_duration_seconds",
		Help:    "HTTP request latency, by route and status.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "route", "status"},
	)
)
