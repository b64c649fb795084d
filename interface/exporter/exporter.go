package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_OPERATION_COUNT    = "operation_count"
	METRIC_ERROR_COUNT        = "error_count"
	METRIC_REWARD_DISTRIBUTED = "reward_distributed"
)

var (
	// --- Static Metrics: the metrics which are not depended on running configuration

	operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staking",
		Subsystem: "ledger",
		Name:      METRIC_OPERATION_COUNT,
		Help:      "Counts the number of committed ledger operations",
	}, []string{"op"})

	failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staking",
		Subsystem: "ledger",
		Name:      METRIC_ERROR_COUNT,
		Help:      "Counts the number of rejected ledger operations",
	}, []string{"kind"})

	rewards = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "staking",
		Subsystem: "ledger",
		Name:      METRIC_REWARD_DISTRIBUTED,
		Help:      "Sums the reward tokens moved out of pool distribution accounts",
	})
)

// Init registers the metrics with the default registry. Counters can be
// updated before Init; they are only exposed after it.
func Init() {
	prometheus.MustRegister(operations, failures, rewards)
}

func IncOperationCount(op string) {
	operations.WithLabelValues(op).Inc()
}

func IncErrorCount(kind string) {
	failures.WithLabelValues(kind).Inc()
}

func AddRewardDistributed(amount uint64) {
	rewards.Add(float64(amount))
}
