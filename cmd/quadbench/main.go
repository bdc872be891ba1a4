// Command quadbench times bulk insertion and retrieval on a quadtree.
package main

import (
	"fmt"
	"os"

	flag "github.com/juju/gnuflag"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
)

type options struct {
	configPath string
	inserts    int
	retrievals int
	threshold  int
	depth      int
	layout     string
	verify     bool
	metrics    string
	cpuProf    bool
	memProf    bool
	profPath   string
	verbose    bool
}

func registerFlags(fs *flag.FlagSet, o *options) {
	fs.StringVar(&o.configPath, "config", "", "TOML file with run settings")
	fs.IntVar(&o.inserts, "n", 0, "number of items to insert")
	fs.IntVar(&o.retrievals, "q", 0, "number of retrievals to run")
	fs.IntVar(&o.threshold, "threshold", 0, "items a node holds before it splits")
	fs.IntVar(&o.depth, "depth", 0, "maximum node depth")
	fs.StringVar(&o.layout, "layout", "", "item placement: 'diagonal' or 'random'")
	fs.BoolVar(&o.verify, "verify", false, "check every retrieval against a brute-force scan")
	fs.StringVar(&o.metrics, "metrics", "", "write tree metrics to this file in Prometheus text format")
	fs.BoolVar(&o.cpuProf, "cpuprof", false, "write a cpu profile")
	fs.BoolVar(&o.memProf, "memprof", false, "write a memory profile")
	fs.StringVar(&o.profPath, "profpath", "./", "directory profiles are written to")
	fs.BoolVar(&o.verbose, "v", false, "log tree splits and missed retrievals")
}

// applyFlags copies every flag given on the command line over cfg.
func applyFlags(fs *flag.FlagSet, o *options, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Run.Inserts = o.inserts
		case "q":
			cfg.Run.Retrievals = o.retrievals
		case "threshold":
			cfg.Tree.ItemThreshold = o.threshold
		case "depth":
			cfg.Tree.MaxDepth = o.depth
		case "layout":
			cfg.Run.Layout = o.layout
		case "verify":
			cfg.Run.Verify = o.verify
		case "metrics":
			cfg.Output.MetricsFile = o.metrics
		}
	})
}

func run(args []string) error {
	var o options
	fs := flag.NewFlagSet("quadbench", flag.ContinueOnError)
	registerFlags(fs, &o)
	if err := fs.Parse(true, args); err != nil {
		return err
	}

	log := logrus.New()
	if o.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	applyFlags(fs, &o, cfg)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid flags")
	}

	if o.cpuProf && o.memProf {
		return errors.New("only one of -cpuprof and -memprof may be set")
	}
	if o.cpuProf {
		log.WithField("path", o.profPath).Info("cpu profiling enabled")
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(o.profPath), profile.NoShutdownHook, profile.Quiet).Stop()
	}
	if o.memProf {
		log.WithField("path", o.profPath).Info("mem profiling enabled")
		defer profile.Start(profile.MemProfile, profile.ProfilePath(o.profPath), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	log.WithFields(logrus.Fields{
		"universe":  fmt.Sprintf("%dx%d", cfg.Universe.Width, cfg.Universe.Height),
		"threshold": cfg.Tree.ItemThreshold,
		"depth":     cfg.Tree.MaxDepth,
		"layout":    cfg.Run.Layout,
	}).Info("starting run")

	report := Run(cfg, log)
	report.Print(os.Stdout)

	if cfg.Output.MetricsFile != "" {
		if err := WriteMetrics(cfg.Output.MetricsFile, report); err != nil {
			return err
		}
		log.WithField("path", cfg.Output.MetricsFile).Info("wrote metrics")
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logrus.WithError(err).Fatal("quadbench failed")
	}
}
