// services/metrics.go
package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// signingDurationMs tracks wall time from custody submit to terminal
// status, labeled by blockchain. Unit: milliseconds.
var signingDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "treasury_custody_signing_duration_ms",
	Help:    "Wall time from custody transaction submit to terminal status in milliseconds.",
	Buckets: prometheus.ExponentialBuckets(250, 2, 12),
}, []string{"blockchain"})

func observeSigningDuration(blockchain string, elapsed time.Duration) {
	signingDurationMs.WithLabelValues(blockchain).Observe(float64(elapsed.Milliseconds()))
}
