package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of rejected order requests",
	}, []string{"reason"})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_deleted_total",
		Help: "Total number of orders deleted by admins",
	})

	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of applied order status transitions",
	}, []string{"axis", "to"})

	InvalidTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_invalid_transitions_total",
		Help: "Total number of rejected status transitions",
	}, []string{"axis"})

	TransitionConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transition_conflicts_total",
		Help: "Total number of status transitions lost to a concurrent writer",
	}, []string{"axis"})

	NotificationsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total number of notifications delivered",
	}, []string{"kind"})

	NotificationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of notification delivery failures",
	}, []string{"kind"})

	NotificationsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_skipped_total",
		Help: "Total number of notifications skipped for missing recipient",
	}, []string{"kind"})

	EventPublishFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_publish_failures_total",
		Help: "Total number of lifecycle events that could not be published",
	}, []string{"type"})

	ReportRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report_requests_total",
		Help: "Total number of report computations",
	}, []string{"type"})

	ReportCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "report_cache_hits_total",
		Help: "Total number of report cache hits",
	})

	ReportCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "report_cache_misses_total",
		Help: "Total number of report cache misses",
	})

	ExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "export_duration_seconds",
		Help:    "Latency of spreadsheet export rendering",
		Buckets: prometheus.DefBuckets,
	})

	BackupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backups_total",
		Help: "Total number of backup attempts",
	}, []string{"status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
