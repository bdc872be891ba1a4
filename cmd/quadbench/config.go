package main

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/pkg/errors"
)

// Config describes one benchmark run. The zero config, after defaults are
// applied, reproduces the classic 600 insert / 600 retrieve run.
type Config struct {
	Universe UniverseConfig `toml:"universe"`
	Tree     TreeConfig     `toml:"tree"`
	Run      RunConfig      `toml:"run"`
	Output   OutputConfig   `toml:"output"`
}

type UniverseConfig struct {
	Width  int `toml:"width" default:"1000"`
	Height int `toml:"height" default:"1000"`
}

type TreeConfig struct {
	ItemThreshold int `toml:"item_threshold" default:"10"`
	MaxDepth      int `toml:"max_depth" default:"4"`
}

const (
	// LayoutDiagonal places item and query i at (i, i).
	LayoutDiagonal = "diagonal"
	// LayoutRandom places items and queries uniformly inside the universe.
	LayoutRandom = "random"
)

type RunConfig struct {
	Inserts    int    `toml:"inserts" default:"600"`
	Retrievals int    `toml:"retrievals" default:"600"`
	ItemSize   int    `toml:"item_size" default:"10"`
	QuerySize  int    `toml:"query_size" default:"50"`
	Layout     string `toml:"layout" default:"diagonal"`
	Seed       int64  `toml:"seed" default:"1"`
	Verify     bool   `toml:"verify"`
}

type OutputConfig struct {
	// MetricsFile, when set, receives the tree's shape in Prometheus text format.
	MetricsFile string `toml:"metrics_file"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "applying config defaults")
	}
	return cfg, nil
}

// LoadConfig reads a TOML file over the defaults. Keys present in the file win,
// including explicit zeros. Unknown keys are an error. An empty path yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate rejects settings the driver cannot run. The tree itself accepts
// anything.
func (c *Config) Validate() error {
	switch c.Run.Layout {
	case LayoutDiagonal, LayoutRandom:
	default:
		return errors.Errorf("unknown layout %q", c.Run.Layout)
	}
	if c.Run.Inserts < 0 || c.Run.Retrievals < 0 {
		return errors.New("inserts and retrievals must not be negative")
	}
	if c.Run.Layout == LayoutRandom && (c.Universe.Width <= 0 || c.Universe.Height <= 0) {
		return errors.New("random layout needs a universe with positive width and height")
	}
	return nil
}
