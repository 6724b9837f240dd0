// Package metrics collects run statistics for a coverage computation and
// exports them in the Prometheus text format, for instance for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "intervalcov"

type Metrics struct {
	registry *prometheus.Registry

	lines          *prometheus.CounterVec
	treeNodes      prometheus.Gauge
	clusters       prometheus.Counter
	clusterMembers prometheus.Histogram
	coveredKeys    prometheus.Gauge
}

func New(keyKind string) *Metrics {
	constLabels := prometheus.Labels{"key": keyKind}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "input_lines_total",
			Help:        "Input lines read, by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		treeNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "tree_nodes",
			Help:        "Intervals held by the tree before coverage.",
			ConstLabels: constLabels,
		}),
		clusters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "clusters_total",
			Help:        "Clusters of overlapping intervals found.",
			ConstLabels: constLabels,
		}),
		clusterMembers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "cluster_members",
			Help:        "Intervals absorbed per cluster.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		}),
		coveredKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "covered_keys",
			Help:        "Keys covered by the union of all intervals. Approximate above 2^53.",
			ConstLabels: constLabels,
		}),
	}
	m.registry.MustRegister(m.lines, m.treeNodes, m.clusters, m.clusterMembers, m.coveredKeys)
	return m
}

func (m *Metrics) ObserveLoad(loaded, skipped, filtered int) {
	m.lines.WithLabelValues("loaded").Add(float64(loaded))
	m.lines.WithLabelValues("skipped").Add(float64(skipped))
	m.lines.WithLabelValues("filtered").Add(float64(filtered))
}

func (m *Metrics) SetTreeNodes(n int) { m.treeNodes.Set(float64(n)) }

func (m *Metrics) ObserveCluster(members int) {
	m.clusters.Inc()
	m.clusterMembers.Observe(float64(members))
}

func (m *Metrics) SetCovered(total *big.Int) {
	f, _ := new(big.Float).SetInt(total).Float64()
	m.coveredKeys.Set(f)
}

// WriteTextfile atomically writes all metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
