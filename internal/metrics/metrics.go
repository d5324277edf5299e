package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Game
	BetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bets_total",
			Help: "Total bets recorded",
		},
	)
	RoundsClosedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rounds_closed_total",
			Help: "Total rounds closed, by drawn result",
		},
		[]string{"result"}, // x2|x3|x5|x50
	)
	OpenRoundBank = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "open_round_bank",
			Help: "Bank of the currently open round",
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(BetsTotal)
	prometheus.MustRegister(RoundsClosedTotal)
	prometheus.MustRegister(OpenRoundBank)
	prometheus.MustRegister(WorkerQueueDepth)
}
