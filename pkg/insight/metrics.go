package insight

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeSuccess  = "success"
	outcomeFallback = "fallback"
)

var requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "devlog",
	Name:      "insight_requests_total",
	Help:      "Insight completion requests by operation and outcome.",
}, []string{"operation", "outcome"})

func init() {
	prometheus.MustRegister(requestsTotal)
}

func observe(r Result) Result {
	outcome := outcomeSuccess
	if !r.Ok() {
		outcome = outcomeFallback
	}
	requestsTotal.WithLabelValues(r.Op, outcome).Inc()
	return r
}
