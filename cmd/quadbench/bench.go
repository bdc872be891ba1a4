package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	quadtree "github.com/robert-butts/holyquadtree"
	"github.com/robert-butts/holyquadtree/metrics"
)

// latencies above this are clamped into the top bucket
const maxTrackedLatency = int64(10 * time.Second)

// Report is the outcome of one run.
type Report struct {
	Inserts      int
	Retrievals   int
	InsertTime   time.Duration
	RetrieveTime time.Duration
	// Candidates is the total number of items returned across all retrievals.
	Candidates int
	Latency    *hdrhistogram.Histogram
	Stats      quadtree.Stats

	Verified bool
	// Overlapping counts (query, item) pairs that really intersect.
	Overlapping int
	// Missed counts overlapping pairs that Retrieve did not return.
	Missed int
}

// layout places the i-th item or query of side size.
type layout func(i, size int) quadtree.Rect[int]

func newLayout(cfg *Config) layout {
	if cfg.Run.Layout == LayoutRandom {
		rnd := rand.New(rand.NewSource(cfg.Run.Seed))
		return func(_, size int) quadtree.Rect[int] {
			return quadtree.NewRect(rnd.Intn(cfg.Universe.Width), rnd.Intn(cfg.Universe.Height), size, size)
		}
	}
	return func(i, size int) quadtree.Rect[int] {
		return quadtree.NewRect(i, i, size, size)
	}
}

// Run inserts cfg.Run.Inserts items of side ItemSize, then issues
// cfg.Run.Retrievals queries of side QuerySize, both placed by cfg.Run.Layout.
func Run(cfg *Config, log *logrus.Logger) *Report {
	qt := quadtree.New(
		quadtree.NewRect(0, 0, cfg.Universe.Width, cfg.Universe.Height),
		quadtree.WithItemThreshold(cfg.Tree.ItemThreshold),
		quadtree.WithMaxDepth(cfg.Tree.MaxDepth),
		quadtree.WithLogger(log),
	)

	place := newLayout(cfg)
	items := make([]*quadtree.Item[int], cfg.Run.Inserts)
	for i := range items {
		items[i] = quadtree.NewItem(place(i, cfg.Run.ItemSize), i)
	}

	r := &Report{
		Inserts:    cfg.Run.Inserts,
		Retrievals: cfg.Run.Retrievals,
		Latency:    hdrhistogram.New(1, maxTrackedLatency, 3),
		Verified:   cfg.Run.Verify,
	}

	log.WithField("items", len(items)).Info("inserting")
	start := time.Now()
	for _, item := range items {
		qt.Insert(item)
	}
	r.InsertTime = time.Since(start)

	log.WithField("queries", r.Retrievals).Info("retrieving")
	for i := 0; i != r.Retrievals; i++ {
		query := place(i, cfg.Run.QuerySize)

		qstart := time.Now()
		found := qt.Retrieve(query)
		elapsed := time.Since(qstart)

		r.RetrieveTime += elapsed
		r.Candidates += len(found)
		r.recordLatency(elapsed)

		if cfg.Run.Verify {
			overlapping, missed := verify(items, query, found)
			r.Overlapping += overlapping
			r.Missed += missed
			if missed > 0 {
				log.WithFields(logrus.Fields{
					"query":  query.String(),
					"missed": missed,
				}).Debug("retrieve missed overlapping items")
			}
		}
	}

	r.Stats = qt.Stats()
	return r
}

func (r *Report) recordLatency(d time.Duration) {
	v := int64(d)
	if v < 1 {
		v = 1
	}
	if v > maxTrackedLatency {
		v = maxTrackedLatency
	}
	// v is within the histogram's range, so this cannot fail
	_ = r.Latency.RecordValue(v)
}

// verify brute-forces query against every item and counts the overlapping
// items missing from found.
func verify(items []*quadtree.Item[int], query quadtree.Rect[int], found []*quadtree.Item[int]) (overlapping, missed int) {
	returned := make(map[*quadtree.Item[int]]struct{}, len(found))
	for _, item := range found {
		returned[item] = struct{}{}
	}
	for _, item := range items {
		if !item.Bounds.Intersects(query) {
			continue
		}
		overlapping++
		if _, ok := returned[item]; !ok {
			missed++
		}
	}
	return overlapping, missed
}

// Print writes a human readable summary of r.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "inserted %s items in %s.\n", humanize.Comma(int64(r.Inserts)), r.InsertTime)
	fmt.Fprintf(w, "retrieved %s candidates via %s queries in %s.\n",
		humanize.Comma(int64(r.Candidates)), humanize.Comma(int64(r.Retrievals)), r.RetrieveTime)
	if r.Retrievals > 0 {
		fmt.Fprintf(w, "retrieve latency p50 %s, p99 %s, max %s.\n",
			time.Duration(r.Latency.ValueAtQuantile(50)),
			time.Duration(r.Latency.ValueAtQuantile(99)),
			time.Duration(r.Latency.Max()))
	}
	fmt.Fprintf(w, "tree has %s nodes (%s leaves), %s items, deepest node at depth %d.\n",
		humanize.Comma(int64(r.Stats.Nodes)), humanize.Comma(int64(r.Stats.Leaves)),
		humanize.Comma(int64(r.Stats.Items)), r.Stats.MaxDepth)
	if r.Verified {
		fmt.Fprintf(w, "verified %s overlapping pairs, %s missed.\n",
			humanize.Comma(int64(r.Overlapping)), humanize.Comma(int64(r.Missed)))
	}
}

// WriteMetrics writes the tree shape from r to path in Prometheus text format.
func WriteMetrics(path string, r *Report) error {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector("quadbench", nil, func() quadtree.Stats { return r.Stats })
	if err := reg.Register(c); err != nil {
		return errors.Wrap(err, "registering tree collector")
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
