// Command seg extracts the distinct Chinese words of text documents into the
// intermediate vocabulary directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teatak/imedict/batch"
	"github.com/teatak/imedict/config"
	"github.com/teatak/imedict/crf"
	"github.com/teatak/imedict/dictionary"
	"github.com/teatak/imedict/extract"
	"github.com/teatak/imedict/metrics"
	"github.com/teatak/imedict/optimizer"
	"github.com/teatak/imedict/segmenter"
)

const Version = "1.0.0"

type options struct {
	configPath  string
	recursive   bool
	outputDir   string
	noMerge     bool
	verbose     bool
	overwrite   bool
	jobs        int
	mode        string
	search      bool
	minLen      int
	discover    bool
	dicts       []string
	model       string
	exclude     []string
	metricsFile string
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "seg PATH",
		Short: "Extract Chinese vocabulary from text documents",
		Long: `seg segments the Chinese text of a file or directory and writes the
distinct words, one per line, to the intermediate directory.

Supported inputs: ` + strings.Join(extract.Extensions(), " "),
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "Config file path (default: ./"+config.ProjectConfigFile+" if present)")
	f.BoolVarP(&o.recursive, "recursive", "r", false, "Descend into subdirectories")
	f.StringVarP(&o.outputDir, "output", "o", "raw", "Intermediate output directory")
	f.BoolVar(&o.noMerge, "no-merge", false, "Write one output file per input file")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Log per-file diagnostics")
	f.BoolVar(&o.overwrite, "overwrite", false, "Replace existing output files instead of numbering new ones")
	f.IntVarP(&o.jobs, "jobs", "j", 1, "Files processed concurrently")
	f.StringVar(&o.mode, "mode", "dag", "Segmentation algorithm: dag, crf or hybrid")
	f.BoolVar(&o.search, "search", false, "Also emit dictionary sub-words of long words")
	f.IntVar(&o.minLen, "min-len", 2, "Minimum word length in characters")
	f.BoolVar(&o.discover, "discover", false, "Mine frequent n-grams from the inputs as extra words")
	f.StringArrayVar(&o.dicts, "dict", nil, "Dictionary file, repeatable; later files win")
	f.StringVar(&o.model, "model", "", "CRF model file for the crf and hybrid modes")
	f.StringArrayVar(&o.exclude, "exclude", nil, "Glob of paths to skip, relative to PATH, repeatable")
	f.StringVar(&o.metricsFile, "metrics-file", "", "Write run metrics in textfile format to this path")
	return cmd
}

func run(cmd *cobra.Command, path string, o options) error {
	logger := newLogger("info", o.verbose)
	cfg, err := config.NewLoader(logger).Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = newLogger(cfg.Log.Level, o.verbose)
	slog.SetDefault(logger)

	applyFlags(cmd, o, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	s := cfg.Segment

	mode, err := segmenter.ParseMode(s.Mode)
	if err != nil {
		return err
	}
	seg := segmenter.NewSegmenter(dictionary.Open(logger, cfg.Lexicon.Dictionaries...))
	if cfg.Lexicon.Model != "" {
		model := crf.NewModel()
		if err := model.Load(cfg.Lexicon.Model); err != nil {
			return fmt.Errorf("load CRF model: %w", err)
		}
		seg.CRFModel = model
	} else if mode != segmenter.ModeDAG {
		logger.Warn("No CRF model configured, falling back to dag", slog.String("mode", mode.String()))
	}
	logger.Debug("Lexicon ready", slog.Int("words", seg.Dict.Len()))

	rec := metrics.New("seg")
	runner := batch.NewRunner(batch.Options{
		Path:      path,
		Recursive: s.Recursive,
		Merge:     s.Merge,
		OutputDir: s.OutputDir,
		Overwrite: s.Overwrite,
		Jobs:      s.Jobs,
		Mode:      mode,
		Search:    s.Search,
		MinRunes:  s.MinLength,
		Exclude:   s.Exclude,
		Encodings: s.Encodings,
		Discover:  s.Discover.Enabled,
		DiscoverOpts: optimizer.Options{
			Threshold: s.Discover.Threshold,
			MaxGram:   s.Discover.MaxGram,
			Ratio:     s.Discover.Ratio,
		},
	}, seg, logger, rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := runner.Run(ctx)
	if o.metricsFile != "" {
		if werr := rec.WriteTextfile(o.metricsFile); werr != nil {
			logger.Warn("Failed to write metrics", slog.String("path", o.metricsFile), slog.String("error", werr.Error()))
		}
	}
	if err != nil {
		return err
	}

	logger.Info("Segmentation finished",
		slog.Int("found", sum.Found),
		slog.Int("processed", sum.Processed),
		slog.Int("failed", sum.Failed),
		slog.Int("skipped", sum.Skipped),
		slog.Int("empty", sum.Empty),
		slog.Int("words", sum.Tokens),
		slog.Int("discovered", sum.Discovered))
	for _, out := range sum.Outputs {
		logger.Info("Wrote vocabulary", slog.String("path", out))
	}
	return nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, o options, cfg *config.Config) {
	f := cmd.Flags()
	s := &cfg.Segment
	if f.Changed("recursive") {
		s.Recursive = o.recursive
	}
	if f.Changed("output") {
		s.OutputDir = o.outputDir
	}
	if f.Changed("no-merge") {
		s.Merge = !o.noMerge
	}
	if f.Changed("overwrite") {
		s.Overwrite = o.overwrite
	}
	if f.Changed("jobs") {
		s.Jobs = o.jobs
	}
	if f.Changed("mode") {
		s.Mode = o.mode
	}
	if f.Changed("search") {
		s.Search = o.search
	}
	if f.Changed("min-len") {
		s.MinLength = o.minLen
	}
	if f.Changed("discover") {
		s.Discover.Enabled = o.discover
	}
	if f.Changed("exclude") {
		s.Exclude = o.exclude
	}
	if f.Changed("dict") {
		cfg.Lexicon.Dictionaries = o.dicts
	}
	if f.Changed("model") {
		cfg.Lexicon.Model = o.model
	}
}

func newLogger(level string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
