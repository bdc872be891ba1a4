package quadtree

import (
	"io"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultItemThreshold is the number of items a node holds before it splits.
	DefaultItemThreshold = 10
	// DefaultMaxDepth is the deepest level a node may be created at.
	DefaultMaxDepth = 4
)

// config is fixed at root construction and shared, unchanged, by every node.
type config struct {
	itemThreshold int
	maxDepth      int
	log           *logrus.Entry
}

// Option configures a tree built by New.
type Option func(*config)

// WithItemThreshold sets how many items a node may hold before it splits.
func WithItemThreshold(n int) Option {
	return func(c *config) {
		c.itemThreshold = n
	}
}

// WithMaxDepth sets the maximum node depth. The root is at depth 0.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

// WithLogger makes the tree report splits and aborted retrievals at debug level.
// If nil is passed, logging stays disabled.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) {
		if l == nil {
			return
		}
		c.log = logrus.NewEntry(l).WithField("component", "quadtree")
	}
}

func newConfig(opts []Option) *config {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	discard.SetLevel(logrus.PanicLevel)
	c := &config{
		itemThreshold: DefaultItemThreshold,
		maxDepth:      DefaultMaxDepth,
		log:           logrus.NewEntry(discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) debug() bool {
	return c.log.Logger.IsLevelEnabled(logrus.DebugLevel)
}
