package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one Analyze call.
type SearchMetric struct {
	StartTime     time.Time
	Duration      time.Duration
	Iterations    int64
	Rollouts      int64
	NodesExpanded int64
	TreeSize      int
}

type MetricsCollector interface {
	Start()
	AddIteration()
	AddRollouts(n int)
	AddNodesExpanded(n int)
	SetTreeSize(n int)
	Complete() SearchMetric
}

// metricsCollector uses atomic counters: AddRollouts is called from the
// rollout goroutines of a single iteration.
type metricsCollector struct {
	startTime     time.Time
	iterations    atomic.Int64
	rollouts      atomic.Int64
	nodesExpanded atomic.Int64
	treeSize      atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
}

func (m *metricsCollector) AddIteration() {
	m.iterations.Add(1)
}

func (m *metricsCollector) AddRollouts(n int) {
	m.rollouts.Add(int64(n))
}

func (m *metricsCollector) AddNodesExpanded(n int) {
	m.nodesExpanded.Add(int64(n))
}

func (m *metricsCollector) SetTreeSize(n int) {
	m.treeSize.Store(int64(n))
}

func (m *metricsCollector) Complete() SearchMetric {
	return SearchMetric{
		StartTime:     m.startTime,
		Duration:      time.Since(m.startTime),
		Iterations:    m.iterations.Load(),
		Rollouts:      m.rollouts.Load(),
		NodesExpanded: m.nodesExpanded.Load(),
		TreeSize:      int(m.treeSize.Load()),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                 {}
func (m *noMetricsCollector) AddIteration()          {}
func (m *noMetricsCollector) AddRollouts(n int)      {}
func (m *noMetricsCollector) AddNodesExpanded(n int) {}
func (m *noMetricsCollector) SetTreeSize(n int)      {}
func (m *noMetricsCollector) Complete() SearchMetric { return SearchMetric{} }
