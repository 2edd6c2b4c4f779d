package graph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ExecutionMetrics wires the executor's iteration loop into Prometheus:
// how many iterations a run takes, how many node invocations are skipped
// by masking, per-node handler latency, and tool failures (component J,
// SPEC_FULL.md domain stack). Grounded on the teacher's graph/metrics.go
// PrometheusMetrics, trimmed down from its concurrent-scheduler counters
// (inflight nodes, queue depth, merge conflicts) to the ones this
// executor's single-linear-run loop actually produces.
type ExecutionMetrics struct {
	iterations  prometheus.Counter
	masked      prometheus.Counter
	nodeLatency *prometheus.HistogramVec
	toolErrors  *prometheus.CounterVec
}

// NewExecutionMetrics creates and registers the executor's metric
// collectors against reg. Passing prometheus.NewRegistry() (or any
// dedicated registerer) avoids collisions when more than one executor
// runs in the same process; nil uses the default global registerer.
func NewExecutionMetrics(reg prometheus.Registerer) (*ExecutionMetrics, error) {
	m := &ExecutionMetrics{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentgraph_executor_iterations_total",
			Help: "Total run-loop iterations across all executor runs.",
		}),
		masked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentgraph_executor_masked_nodes_total",
			Help: "Total node visits skipped because the node was masked.",
		}),
		nodeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "agentgraph_executor_node_duration_seconds",
			Help: "Node handler latency by node name.",
		}, []string{"node"}),
		toolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentgraph_executor_tool_errors_total",
			Help: "Tool invocations that ended in an error, by tool name.",
		}, []string{"tool"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{m.iterations, m.masked, m.nodeLatency, m.toolErrors}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

func (m *ExecutionMetrics) observeIteration() {
	if m == nil {
		return
	}
	m.iterations.Inc()
}

func (m *ExecutionMetrics) observeMasked() {
	if m == nil {
		return
	}
	m.masked.Inc()
}

func (m *ExecutionMetrics) observeNodeLatency(node string, d time.Duration) {
	if m == nil {
		return
	}
	m.nodeLatency.WithLabelValues(node).Observe(d.Seconds())
}

func (m *ExecutionMetrics) observeToolError(tool string) {
	if m == nil {
		return
	}
	m.toolErrors.WithLabelValues(tool).Inc()
}
