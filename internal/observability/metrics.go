package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	paymentsRecordedTotal *prometheus.CounterVec
	creditsRedeemedTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the fee API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fee_api_requests_total",
			Help: "Total number of fee API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fee_api_latency_seconds",
			Help:    "Latency distribution for fee API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fee_api_errors_total",
			Help: "Total number of error responses returned by fee API endpoints.",
		}, []string{"method", "route", "status"})

		paymentsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fee_payments_recorded_total",
			Help: "Total number of monthly fees marked paid.",
		}, []string{"branch"})

		creditsRedeemedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fee_credits_redeemed_total",
			Help: "Total number of referral credits redeemed against dues.",
		}, []string{"branch"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, paymentsRecordedTotal, creditsRedeemedTotal)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// PaymentsRecorded exposes the counter for recorded payments.
func PaymentsRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return paymentsRecordedTotal
}

// CreditsRedeemed exposes the counter for redeemed credits.
func CreditsRedeemed() *prometheus.CounterVec {
	RegisterMetrics()
	return creditsRedeemedTotal
}
