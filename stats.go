package quadtree

// Stats is a census of a subtree.
type Stats struct {
	Nodes  int
	Leaves int
	Items  int
	// MaxDepth is the depth of the deepest node present, not the configured ceiling.
	MaxDepth int
}

// Stats walks the subtree rooted at q.
func (q *Quadtree[T]) Stats() Stats {
	var s Stats
	q.census(&s)
	return s
}

func (q *Quadtree[T]) census(s *Stats) {
	s.Nodes++
	s.Items += len(q.items)
	if q.depth > s.MaxDepth {
		s.MaxDepth = q.depth
	}
	if q.kids == nil {
		s.Leaves++
		return
	}
	for _, kid := range q.kids {
		kid.census(s)
	}
}
