// Command dict builds the pinyin dictionary from the intermediate vocabulary
// files written by seg.
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

	"github.com/teatak/imedict/builder"
	"github.com/teatak/imedict/config"
	"github.com/teatak/imedict/dictionary"
	"github.com/teatak/imedict/metrics"
	"github.com/teatak/imedict/phonetic"
)

const Version = "1.0.0"

type options struct {
	configPath  string
	verbose     bool
	inputDir    string
	outputDir   string
	policy      string
	onMissing   string
	heteronym   bool
	phraseFile  string
	style       string
	weights     bool
	comment     string
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
		Use:   "dict",
		Short: "Build a pinyin dictionary from extracted vocabulary",
		Long: `dict reads every file of the intermediate directory, looks up the pinyin
of each word and writes a sorted "<word> <pinyin>" dictionary that input
methods can import.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "Config file path (default: ./"+config.ProjectConfigFile+" if present)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Log per-word diagnostics")
	f.StringVar(&o.inputDir, "in", "raw", "Intermediate vocabulary directory")
	f.StringVar(&o.outputDir, "out", "results", "Output directory")
	f.StringVar(&o.policy, "policy", config.PolicyLastWins, "Duplicate words across files: last-wins or first-wins")
	f.StringVar(&o.onMissing, "on-missing", config.MissingSkip, "Words without pinyin: skip or empty")
	f.BoolVar(&o.heteronym, "heteronym", true, "Emit alternative readings of polyphonic characters outside known phrases")
	f.StringVar(&o.phraseFile, "phrases", "", "Extra phrase-reading table, \"<word> <tone3 syllable>...\" per line")
	f.StringVar(&o.style, "style", phonetic.StyleNormal, "Pinyin style: normal, tone, tone2 or tone3")
	f.BoolVar(&o.weights, "weights", false, "Add the lexicon frequency of each word as a weight column")
	f.StringVar(&o.comment, "comment", config.CommentNone, "Comment column: none or source")
	f.StringVar(&o.metricsFile, "metrics-file", "", "Write run metrics in textfile format to this path")
	return cmd
}

func run(cmd *cobra.Command, o options) error {
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
	b := cfg.Build

	policy, err := builder.ParsePolicy(b.Policy)
	if err != nil {
		return err
	}
	missing, err := builder.ParseMissing(b.OnMissing)
	if err != nil {
		return err
	}
	tr, err := phonetic.New(phonetic.Options{
		Style:       b.Style,
		Heteronym:   b.Heteronym,
		SyllableSep: b.SyllableSep,
		ReadingSep:  b.ReadingSep,
		MaxReadings: b.MaxReadings,
		PhraseFile:  b.PhraseFile,
	})
	if err != nil {
		return err
	}

	opts := builder.Options{
		InputDir:      b.InputDir,
		OutputDir:     b.OutputDir,
		OutputName:    b.OutputName,
		Policy:        policy,
		OnMissing:     missing,
		SourceComment: b.Comment == config.CommentSource,
	}
	if b.Weights {
		opts.Weight = dictionary.Open(logger, cfg.Lexicon.Dictionaries...).Frequency
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.New("dict")
	res, err := builder.New(opts, tr, logger, rec).Build(ctx)
	if o.metricsFile != "" {
		if werr := rec.WriteTextfile(o.metricsFile); werr != nil {
			logger.Warn("Failed to write metrics", slog.String("path", o.metricsFile), slog.String("error", werr.Error()))
		}
	}
	if err != nil {
		return err
	}

	if res.Missing > 0 {
		logger.Warn("Words without pinyin", slog.Int("count", res.Missing), slog.String("on_missing", b.OnMissing))
	}
	logger.Info("Dictionary written",
		slog.String("path", res.Output),
		slog.Int("files", res.Files),
		slog.Int("failed", res.Failed),
		slog.Int("entries", res.Entries),
		slog.Int("duplicates", res.Collisions))
	return nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, o options, cfg *config.Config) {
	f := cmd.Flags()
	b := &cfg.Build
	if f.Changed("in") {
		b.InputDir = o.inputDir
	}
	if f.Changed("out") {
		b.OutputDir = o.outputDir
	}
	if f.Changed("policy") {
		b.Policy = o.policy
	}
	if f.Changed("on-missing") {
		b.OnMissing = o.onMissing
	}
	if f.Changed("heteronym") {
		b.Heteronym = o.heteronym
	}
	if f.Changed("phrases") {
		b.PhraseFile = o.phraseFile
	}
	if f.Changed("style") {
		b.Style = o.style
	}
	if f.Changed("weights") {
		b.Weights = o.weights
	}
	if f.Changed("comment") {
		b.Comment = o.comment
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
