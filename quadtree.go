/*
Package quadtree implements a region quadtree over axis-aligned rectangles.

Items are pushed down only when they fit strictly inside one quadrant of a
node. Items crossing a node's midlines stay at that node, so every item is
stored exactly once and a lookup never needs to search more than one path.

Retrieve returns candidates, not matches. Callers run the exact overlap test
(Rect.Intersects) on what it returns.

quadtree is not safe for concurrent use.
*/
package quadtree

import (
	"slices"

	"github.com/sirupsen/logrus"
)

// Quadrant indices, measured against a node's own midpoint. The order is
// fixed and matches the order children are visited in.
const (
	Ne = iota // top-right
	Nw        // top-left
	Sw        // bottom-left
	Se        // bottom-right
)

// Quadtree is a node of the tree. The value returned by New is the root.
type Quadtree[T Number] struct {
	region Rect[T]
	depth  int
	items  []*Item[T]
	// nil while the node is a leaf.
	kids *[4]*Quadtree[T]
	cfg  *config
}

// New creates the root of a tree covering region.
// Items outside region are still accepted.
func New[T Number](region Rect[T], opts ...Option) *Quadtree[T] {
	return &Quadtree[T]{
		region: region,
		cfg:    newConfig(opts),
	}
}

// Region returns the area covered by this node.
func (q *Quadtree[T]) Region() Rect[T] {
	return q.region
}

// Depth returns this node's distance from the root.
func (q *Quadtree[T]) Depth() int {
	return q.depth
}

// Insert adds item to the tree. The tree holds the pointer, not a copy.
func (q *Quadtree[T]) Insert(item *Item[T]) {
	if q.kids != nil {
		if i, ok := q.classify(item.Bounds); ok {
			q.kids[i].Insert(item)
			return
		}
	}

	q.items = append(q.items, item)
	if len(q.items) <= q.cfg.itemThreshold || q.depth >= q.cfg.maxDepth {
		return
	}
	split := q.kids == nil
	if split {
		q.subdivide()
	}
	q.disperse(split)
}

// Retrieve returns every item that may overlap query, parents before children
// and in insertion order within a node.
//
// When query straddles a node's midlines, children are visited in quadrant
// order and the first child lying entirely outside query's expanded bound
// (query grown by its own width and height on each side) ends the visit of
// that node with no results, discarding the node's own items and whatever its
// earlier children produced. Items overlapping query can be missed this way.
func (q *Quadtree[T]) Retrieve(query Rect[T]) []*Item[T] {
	found, _ := q.retrieve(query, nil)
	return found
}

// retrieve appends this node's candidates to out. aborted reports whether
// this node or any node below it ended its visit early; Retrieve drops it,
// tests use it to tell an early return from an empty result.
func (q *Quadtree[T]) retrieve(query Rect[T], out []*Item[T]) (found []*Item[T], aborted bool) {
	start := len(out)
	out = append(out, q.items...)
	if q.kids == nil {
		return out, false
	}

	if i, ok := q.classify(query); ok {
		kid := q.kids[i]
		if kid.region.outside(query) {
			q.logAbort(query, i)
			return out[:start], true
		}
		return kid.retrieve(query, out)
	}

	for i, kid := range q.kids {
		if kid.region.outside(query) {
			q.logAbort(query, i)
			return out[:start], true
		}
		var kidAborted bool
		out, kidAborted = kid.retrieve(query, out)
		aborted = aborted || kidAborted
	}
	return out, aborted
}

// Remove deletes item from the node it would have been stored in.
// It reports whether the item was found there; no other node is searched.
func (q *Quadtree[T]) Remove(item *Item[T]) bool {
	n := q.holder(item)
	i := slices.Index(n.items, item)
	if i < 0 {
		return false
	}
	n.items = slices.Delete(n.items, i, i+1)
	return true
}

// Clear removes every item and discards all children, leaving an empty leaf.
func (q *Quadtree[T]) Clear() {
	q.items = nil
	if q.kids == nil {
		return
	}
	for _, kid := range q.kids {
		kid.Clear()
	}
	q.kids = nil
}

// holder returns the node that stores item: the deepest node reached by
// following the quadrants item strictly fits in.
func (q *Quadtree[T]) holder(item *Item[T]) *Quadtree[T] {
	n := q
	for n.kids != nil {
		i, ok := n.classify(item.Bounds)
		if !ok {
			break
		}
		n = n.kids[i]
	}
	return n
}

// classify returns the quadrant r fits entirely within, measured against this
// node's midlines. Touching or crossing a midline fits no quadrant.
func (q *Quadtree[T]) classify(r Rect[T]) (int, bool) {
	vMid := float64(q.region.X) + float64(q.region.W)/2
	hMid := float64(q.region.Y) + float64(q.region.H)/2
	x, y := float64(r.X), float64(r.Y)

	left := x < vMid && x+float64(r.W) < vMid
	right := x > vMid
	top := y < hMid && y+float64(r.H) < hMid
	bottom := y > hMid

	switch {
	case right && top:
		return Ne, true
	case left && top:
		return Nw, true
	case left && bottom:
		return Sw, true
	case right && bottom:
		return Se, true
	}
	return -1, false
}

// helper function of Insert()
// subdivides the node into quadrants. In integer domains the half extents
// round up, so odd sizes produce children one unit wider than half.
func (q *Quadtree[T]) subdivide() {
	if q.kids != nil {
		panic("quadtree: subdivide called on a node that is already split")
	}
	w := halve(q.region.W)
	h := halve(q.region.H)
	x, y := q.region.X, q.region.Y

	q.kids = &[4]*Quadtree[T]{
		Ne: q.createQuadrant(Rect[T]{X: x + w, Y: y, W: w, H: h}),
		Nw: q.createQuadrant(Rect[T]{X: x, Y: y, W: w, H: h}),
		Sw: q.createQuadrant(Rect[T]{X: x, Y: y + h, W: w, H: h}),
		Se: q.createQuadrant(Rect[T]{X: x + w, Y: y + h, W: w, H: h}),
	}
}

func (q *Quadtree[T]) createQuadrant(region Rect[T]) *Quadtree[T] {
	return &Quadtree[T]{
		region: region,
		depth:  q.depth + 1,
		cfg:    q.cfg,
	}
}

// helper function of Insert()
// moves every item that fits a single quadrant into that child. Straddlers
// are set aside first so the node's list is never edited while it is walked.
func (q *Quadtree[T]) disperse(split bool) {
	kept := make([]*Item[T], 0, len(q.items))
	var moved []*Item[T]
	for _, item := range q.items {
		if _, ok := q.classify(item.Bounds); ok {
			moved = append(moved, item)
		} else {
			kept = append(kept, item)
		}
	}
	q.items = kept

	if split && q.cfg.debug() {
		q.cfg.log.WithFields(logrus.Fields{
			"depth":  q.depth,
			"region": q.region.String(),
			"moved":  len(moved),
			"kept":   len(kept),
		}).Debug("node split")
	}

	for _, item := range moved {
		i, _ := q.classify(item.Bounds)
		q.kids[i].Insert(item)
	}
}

func (q *Quadtree[T]) logAbort(query Rect[T], quadrant int) {
	if !q.cfg.debug() {
		return
	}
	q.cfg.log.WithFields(logrus.Fields{
		"depth":    q.depth,
		"query":    query.String(),
		"quadrant": quadrant,
	}).Debug("retrieve stopped at child outside query bounds")
}
