package main

import (
	"os"
	"path/filepath"
	"testing"

	flag "github.com/juju/gnuflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quadbench.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, UniverseConfig{Width: 1000, Height: 1000}, cfg.Universe)
	assert.Equal(t, TreeConfig{ItemThreshold: 10, MaxDepth: 4}, cfg.Tree)
	assert.Equal(t, RunConfig{
		Inserts:    600,
		Retrievals: 600,
		ItemSize:   10,
		QuerySize:  50,
		Layout:     LayoutDiagonal,
		Seed:       1,
	}, cfg.Run)
	assert.Empty(t, cfg.Output.MetricsFile)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[universe]
width = 512

[tree]
item_threshold = 0
max_depth = 1000

[run]
layout = "random"
verify = true

[output]
metrics_file = "tree.prom"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.Universe.Width)
	assert.Equal(t, 1000, cfg.Universe.Height)
	assert.Equal(t, 0, cfg.Tree.ItemThreshold, "explicit zero must survive defaults")
	assert.Equal(t, 1000, cfg.Tree.MaxDepth)
	assert.Equal(t, LayoutRandom, cfg.Run.Layout)
	assert.True(t, cfg.Run.Verify)
	assert.Equal(t, 600, cfg.Run.Inserts)
	assert.Equal(t, "tree.prom", cfg.Output.MetricsFile)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[tree]
max_levels = 3
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tree.max_levels")
}

func TestLoadConfigRejectsBadLayout(t *testing.T) {
	path := writeConfig(t, `
[run]
layout = "spiral"
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown layout "spiral"`)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestApplyFlags(t *testing.T) {
	var o options
	fs := flag.NewFlagSet("quadbench", flag.ContinueOnError)
	registerFlags(fs, &o)
	require.NoError(t, fs.Parse(true, []string{"-n", "5", "--threshold=0", "--verify"}))

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	applyFlags(fs, &o, cfg)

	assert.Equal(t, 5, cfg.Run.Inserts)
	assert.Equal(t, 0, cfg.Tree.ItemThreshold)
	assert.True(t, cfg.Run.Verify)
	assert.Equal(t, 600, cfg.Run.Retrievals, "flags not given must not override")
	assert.Equal(t, 4, cfg.Tree.MaxDepth)
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	sample, err := LoadConfig("quadbench.toml")
	require.NoError(t, err)
	want, err := DefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, want, sample)
}
