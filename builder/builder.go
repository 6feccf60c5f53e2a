// Package builder turns the intermediate vocabulary files into a pinyin
// dictionary for input-method importers.
package builder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/teatak/imedict/metrics"
	"github.com/teatak/imedict/util"
	"github.com/teatak/imedict/vocab"
)

// ErrNoInput is returned when the intermediate directory is missing or holds no files.
var ErrNoInput = errors.New("no intermediate files")

// Transcriber returns the pronunciation column of a word.
type Transcriber interface {
	Transcribe(word string) (string, error)
}

// WeightFunc looks up an optional weight for a word.
type WeightFunc func(word string) (float64, bool)

// Options configures a Builder.
type Options struct {
	InputDir   string
	OutputDir  string
	OutputName string
	Policy     MergePolicy
	OnMissing  MissingMode
	// SourceComment puts the name of the intermediate file a word came from
	// in the comment column.
	SourceComment bool
	// Weight, when set, fills the weight column for words it knows.
	Weight WeightFunc
}

// Result reports the outcome of a build.
type Result struct {
	Files      int
	Failed     int
	Words      int
	Entries    int
	Missing    int
	Invalid    int
	Collisions int
	Output     string
}

// Builder produces the output dictionary.
type Builder struct {
	opts    Options
	tr      Transcriber
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New creates a Builder. logger and rec may be nil.
func New(opts Options, tr Transcriber, logger *slog.Logger, rec *metrics.Recorder) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.New("dict")
	}
	return &Builder{opts: opts, tr: tr, logger: logger, metrics: rec}
}

type lookup struct {
	pron string
	err  error
}

// Build reads every file of the input directory in file name order, merges
// their words under the merge policy and writes the sorted dictionary. The
// output is replaced atomically, so nothing is written when the build fails.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	files, err := b.inputFiles()
	if err != nil {
		return nil, err
	}

	res := &Result{Files: len(files)}
	entries := make(map[string]Entry)
	cache := make(map[string]lookup)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		words, err := vocab.ReadFile(path)
		if err != nil {
			res.Failed++
			b.metrics.FilesFailed.Inc()
			b.logger.Warn("Skipping intermediate file", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		b.metrics.FilesProcessed.Inc()
		source := filepath.Base(path)
		b.logger.Debug("Reading intermediate file", slog.String("path", path), slog.Int("words", len(words)))

		for _, word := range words {
			res.Words++
			if !util.IsChineseWord(word) {
				res.Invalid++
				b.logger.Debug("Skipping non-Chinese token", slog.String("token", word), slog.String("file", source))
				continue
			}
			if _, seen := entries[word]; seen {
				res.Collisions++
				if b.opts.Policy == FirstWins {
					continue
				}
			}

			l, ok := cache[word]
			if !ok {
				p, err := b.tr.Transcribe(word)
				l = lookup{pron: p, err: err}
				cache[word] = l
				if err != nil {
					res.Missing++
					b.metrics.ReadingsMissing.Inc()
					b.logger.Debug("No reading", slog.String("word", word), slog.String("error", err.Error()))
				}
			}
			if l.err != nil && b.opts.OnMissing == SkipMissing {
				continue
			}

			e := Entry{Word: word}
			if l.err == nil {
				e.Pronunciation = l.pron
			}
			if b.opts.Weight != nil {
				if w, ok := b.opts.Weight(word); ok {
					e.Weight = &w
				}
			}
			if b.opts.SourceComment {
				e.Comment = source
			}
			entries[word] = e
		}
	}

	out, err := b.write(entries)
	if err != nil {
		b.metrics.Finish(start, false)
		return nil, err
	}
	res.Entries = len(entries)
	res.Output = out
	b.metrics.EntriesWritten.Add(float64(len(entries)))
	b.metrics.Finish(start, true)
	return res, nil
}

// inputFiles lists the regular files of the input directory sorted by name.
func (b *Builder) inputFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(b.opts.InputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s does not exist: %w", b.opts.InputDir, ErrNoInput)
		}
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var files []string
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(b.opts.InputDir, de.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", b.opts.InputDir, ErrNoInput)
	}
	sort.Strings(files)
	return files, nil
}

func (b *Builder) write(entries map[string]Entry) (string, error) {
	if err := os.MkdirAll(b.opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	words := make([]string, 0, len(entries))
	for w := range entries {
		words = append(words, w)
	}
	sort.Strings(words)

	tmp, err := os.CreateTemp(b.opts.OutputDir, "."+b.opts.OutputName+".*")
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, word := range words {
		w.WriteString(entries[word].String())
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	out := filepath.Join(b.opts.OutputDir, b.opts.OutputName)
	if err := os.Rename(tmp.Name(), out); err != nil {
		return "", fmt.Errorf("replace output: %w", err)
	}
	return out, nil
}
