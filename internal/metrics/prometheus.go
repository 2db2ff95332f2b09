// Package metrics exposes the Prometheus collectors for the claim workflow and
// the HTTP surface. Collectors are registered on an injected registry so tests
// can use a fresh one.
package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cattle_insurance"

type Metrics struct {
	ClaimsCreated       prometheus.Counter
	VerificationActions *prometheus.CounterVec
	VerificationScore   prometheus.Histogram
	FilesUploaded       *prometheus.CounterVec
	UploadBytes         prometheus.Histogram
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// NewPrometheusMetrics creates the collectors and registers them on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ClaimsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_created_total",
			Help:      "Number of claims filed by agents.",
		}),
		VerificationActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_verifications_total",
			Help:      "Claim verifications by suggested action.",
		}, []string{"action"}),
		VerificationScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "claim_verification_confidence",
			Help:      "Confidence scores produced by the claim scorer.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
		FilesUploaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evidence_files_uploaded_total",
			Help:      "Evidence files stored through the farmer upload portal.",
		}, []string{"file_type"}),
		UploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evidence_file_size_bytes",
			Help:      "Size of uploaded evidence files.",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 8),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	collectors := []prometheus.Collector{
		m.ClaimsCreated,
		m.VerificationActions,
		m.VerificationScore,
		m.FilesUploaded,
		m.UploadBytes,
		m.HTTPRequests,
		m.HTTPDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) RecordClaimCreated() {
	m.ClaimsCreated.Inc()
}

func (m *Metrics) RecordVerification(action string, confidence float64) {
	m.VerificationActions.WithLabelValues(action).Inc()
	m.VerificationScore.Observe(confidence)
}

// RecordUpload counts an evidence file. Types other than image and video share
// the "other" label so callers cannot grow the series set.
func (m *Metrics) RecordUpload(fileType string, size int64) {
	m.FilesUploaded.WithLabelValues(fileTypeLabel(fileType)).Inc()
	m.UploadBytes.Observe(float64(size))
}

func fileTypeLabel(fileType string) string {
	switch t := strings.ToLower(fileType); t {
	case "image", "video":
		return t
	default:
		return "other"
	}
}

func (m *Metrics) RecordRequest(method, route string, status int, seconds float64) {
	m.HTTPRequests.WithLabelValues(method, route, fmt.Sprint(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}
