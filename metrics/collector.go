// Package metrics exports the shape of a quadtree to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	quadtree "github.com/robert-butts/holyquadtree"
)

// StatsSource returns a fresh census of a tree. It is called on every scrape,
// so it must be safe to call from the scraping goroutine.
type StatsSource func() quadtree.Stats

var _ prometheus.Collector = (*Collector)(nil)

// Collector samples a StatsSource on each Collect.
type Collector struct {
	src StatsSource

	nodes    *prometheus.Desc
	leaves   *prometheus.Desc
	items    *prometheus.Desc
	maxDepth *prometheus.Desc
}

func NewCollector(namespace string, labels prometheus.Labels, src StatsSource) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "quadtree", name), help, nil, labels)
	}
	return &Collector{
		src:      src,
		nodes:    desc("nodes", "Number of nodes in the tree"),
		leaves:   desc("leaves", "Number of nodes without children"),
		items:    desc("items", "Number of items stored in the tree"),
		maxDepth: desc("max_depth", "Depth of the deepest node in the tree"),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodes
	ch <- c.leaves
	ch <- c.items
	ch <- c.maxDepth
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src()
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(s.Nodes))
	ch <- prometheus.MustNewConstMetric(c.leaves, prometheus.GaugeValue, float64(s.Leaves))
	ch <- prometheus.MustNewConstMetric(c.items, prometheus.GaugeValue, float64(s.Items))
	ch <- prometheus.MustNewConstMetric(c.maxDepth, prometheus.GaugeValue, float64(s.MaxDepth))
}
