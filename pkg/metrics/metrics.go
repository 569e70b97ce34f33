package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DocumentUploads = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docvault", Name: "document_uploads_total", Help: "Number of successful document uploads."},
	)
	DocumentUploadsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docvault", Name: "document_uploads_rejected_total", Help: "Number of uploads rejected by the file-type policy."},
	)
	DocumentDownloads = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docvault", Name: "document_downloads_total", Help: "Number of successful document downloads."},
	)
	DocumentDeletes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docvault", Name: "document_deletes_total", Help: "Number of successful document deletions."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docvault", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docvault", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(DocumentUploads)
	reg.MustRegister(DocumentUploadsRejected)
	reg.MustRegister(DocumentDownloads)
	reg.MustRegister(DocumentDeletes)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
