package colordata

import "github.com/prometheus/client_golang/prometheus"

var (
	blocksScanned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccoin",
		Subsystem: "colordata",
		Name:      "blocks_scanned_total",
		Help:      "Blocks marked as scanned, by strategy.",
	}, []string{"strategy"})

	txsScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ccoin",
		Subsystem: "colordata",
		Name:      "txs_scanned_total",
		Help:      "Transactions passed to a color data builder.",
	})

	kernelRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccoin",
		Subsystem: "colordata",
		Name:      "kernel_runs_total",
		Help:      "Kernel evaluations, by coloring scheme.",
	}, []string{"scheme"})
)

// Collectors returns the scan metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{blocksScanned, txsScanned, kernelRuns}
}
