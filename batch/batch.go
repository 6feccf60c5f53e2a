// Package batch runs the vocabulary extraction job: it reads documents,
// segments their Chinese text and writes the distinct words to the
// intermediate directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teatak/imedict/extract"
	"github.com/teatak/imedict/metrics"
	"github.com/teatak/imedict/optimizer"
	"github.com/teatak/imedict/segmenter"
	"github.com/teatak/imedict/textenc"
	"github.com/teatak/imedict/vocab"
)

// ErrPathNotFound is returned when the input path does not exist.
var ErrPathNotFound = errors.New("input path does not exist")

const (
	segmentedSuffix = "_segmented"
	mergedSuffix    = "_merged_segmented"
)

// Options configures a Runner.
type Options struct {
	Path      string
	Recursive bool
	// Merge writes one file for a directory run instead of one per input.
	Merge     bool
	OutputDir string
	Overwrite bool
	Jobs      int
	Mode      segmenter.Mode
	// Search adds dictionary sub-words of long words.
	Search    bool
	MinRunes  int
	Exclude   []string
	Encodings []string
	// Discover mines frequent n-grams from the inputs and adds them to the
	// lexicon for this run.
	Discover     bool
	DiscoverOpts optimizer.Options
}

// Summary reports the outcome of a run.
type Summary struct {
	Found     int
	Processed int
	Failed    int
	// Skipped counts inputs passed over for their type.
	Skipped int
	// Empty counts processed inputs that held no Chinese word.
	Empty      int
	Tokens     int
	Discovered int
	Outputs    []string
	// Duplicates maps base names shared by several inputs to their count.
	Duplicates map[string]int
}

// Runner executes the extraction job.
type Runner struct {
	opts    Options
	seg     *segmenter.Segmenter
	filter  vocab.Filter
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewRunner creates a Runner segmenting with seg. rec may be nil.
func NewRunner(opts Options, seg *segmenter.Segmenter, logger *slog.Logger, rec *metrics.Recorder) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.New("seg")
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if opts.MinRunes < 1 {
		opts.MinRunes = vocab.DefaultMinRunes
	}
	if opts.Encodings == nil {
		opts.Encodings = textenc.DefaultFallbacks
	}
	return &Runner{
		opts:    opts,
		seg:     seg,
		filter:  vocab.Filter{MinRunes: opts.MinRunes},
		logger:  logger,
		metrics: rec,
	}
}

// fileResult is the outcome for one input. Each input owns its slot, so
// workers never share mutable state.
type fileResult struct {
	path     string
	encoding string
	text     string
	words    vocab.Set
	err      error
}

// Run processes the input path. Per-file failures are logged and counted;
// only configuration problems (missing path, unusable output directory) are
// returned as errors. A run that finds no Chinese words still succeeds.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	info, err := os.Stat(r.opts.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.opts.Path, ErrPathNotFound)
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}
	isDir := info.IsDir()

	exclude := r.opts.Exclude
	if isDir {
		if p := nestedExclude(r.opts.Path, r.opts.OutputDir); p != "" {
			exclude = append(append([]string{}, exclude...), p)
		}
	}
	files, err := Collect(r.opts.Path, r.opts.Recursive, exclude)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Found: len(files), Duplicates: duplicateNames(files)}
	if !isDir && len(files) == 0 {
		r.logger.Warn("Unsupported file type, skipping",
			slog.String("path", r.opts.Path),
			slog.String("supported", strings.Join(extract.Extensions(), " ")))
		sum.Skipped = 1
		r.metrics.FilesSkipped.Inc()
		r.metrics.Finish(start, true)
		return sum, nil
	}
	if isDir && len(files) == 0 {
		r.logger.Warn("No supported text files found", slog.String("dir", r.opts.Path))
	}
	r.logger.Info("Found input files", slog.Int("count", len(files)), slog.Bool("recursive", r.opts.Recursive))

	if err := os.MkdirAll(r.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	results := make([]fileResult, len(files))
	if err := r.forEach(ctx, len(files), func(i int) { results[i] = r.load(files[i]) }); err != nil {
		return nil, err
	}

	seg := r.seg
	if r.opts.Discover {
		seg = r.withDiscovered(results, sum)
	}

	if err := r.forEach(ctx, len(results), func(i int) { r.segment(seg, &results[i]) }); err != nil {
		return nil, err
	}

	for _, res := range results {
		if res.err != nil {
			sum.Failed++
			r.metrics.FilesFailed.Inc()
			r.logger.Warn("Skipping file", slog.String("path", res.path), slog.String("error", res.err.Error()))
			continue
		}
		sum.Processed++
		r.metrics.FilesProcessed.Inc()
		if res.words.Len() == 0 {
			sum.Empty++
			r.logger.Debug("No Chinese words found", slog.String("path", res.path))
		}
		r.logger.Debug("Processed file",
			slog.String("path", res.path),
			slog.String("encoding", res.encoding),
			slog.Int("words", res.words.Len()))
	}

	if isDir && !r.opts.Merge {
		err = r.writeSeparate(results, sum)
	} else {
		err = r.writeMerged(isDir, results, sum)
	}
	if err != nil {
		r.metrics.Finish(start, false)
		return sum, err
	}

	for name, n := range sum.Duplicates {
		r.logger.Info("Duplicate file name", slog.String("name", name), slog.Int("count", n))
	}
	r.metrics.Finish(start, true)
	return sum, nil
}

// forEach calls fn for 0..n-1 on at most Jobs goroutines. Cancelling ctx
// stops scheduling new items.
func (r *Runner) forEach(ctx context.Context, n int, fn func(i int)) error {
	var g errgroup.Group
	g.SetLimit(r.opts.Jobs)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

// load reads, decodes and strips one input.
func (r *Runner) load(path string) fileResult {
	res := fileResult{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}
	dec, err := textenc.Decode(data, r.opts.Encodings)
	if err != nil {
		res.err = fmt.Errorf("decode: %w", err)
		return res
	}
	res.encoding = dec.Encoding
	res.text = extract.Strip(path, dec.Text)
	return res
}

func (r *Runner) segment(seg *segmenter.Segmenter, res *fileResult) {
	if res.err != nil {
		return
	}
	var tokens []string
	if r.opts.Search {
		tokens = seg.CutSearch(res.text, r.opts.Mode)
	} else {
		tokens = seg.Cut(res.text, r.opts.Mode)
	}
	res.words = r.filter.Collect(tokens)
	res.text = ""
}

// withDiscovered returns a segmenter whose lexicon also holds the words mined
// from the loaded texts. The shared lexicon is left untouched.
func (r *Runner) withDiscovered(results []fileResult, sum *Summary) *segmenter.Segmenter {
	texts := make([]string, 0, len(results))
	for _, res := range results {
		if res.err == nil {
			texts = append(texts, res.text)
		}
	}
	dict := r.seg.Dict.Clone()
	added := 0
	for _, w := range optimizer.Candidates(texts, r.opts.DiscoverOpts) {
		if !dict.Contains(w.Text) {
			dict.Add(w.Text, float64(w.Freq))
			added++
		}
	}
	sum.Discovered = added
	r.logger.Info("Discovered new words", slog.Int("count", added))
	seg := segmenter.NewSegmenter(dict)
	seg.CRFModel = r.seg.CRFModel
	return seg
}

func (r *Runner) writeMerged(isDir bool, results []fileResult, sum *Summary) error {
	all := make(vocab.Set)
	for _, res := range results {
		if res.err == nil {
			all.Union(res.words)
		}
	}

	var base string
	if isDir {
		base = dirName(r.opts.Path) + mergedSuffix
	} else {
		base = stem(r.opts.Path) + segmentedSuffix
	}
	out := vocab.UniquePath(r.opts.OutputDir, base, r.opts.Overwrite)
	if err := vocab.WriteFile(out, all.Sorted()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	sum.Tokens = all.Len()
	sum.Outputs = append(sum.Outputs, out)
	r.metrics.TokensWritten.Add(float64(all.Len()))
	r.logger.Info("Wrote merged vocabulary", slog.String("path", out), slog.Int("words", all.Len()))
	return nil
}

// writeSeparate writes one output per successfully read input. Inputs that
// share a stem get numbered names even when overwriting.
func (r *Runner) writeSeparate(results []fileResult, sum *Summary) error {
	used := make(map[string]bool)
	for _, res := range results {
		if res.err != nil {
			continue
		}
		base := stem(res.path) + segmentedSuffix
		out := vocab.UniquePath(r.opts.OutputDir, base, r.opts.Overwrite)
		if used[out] {
			out = vocab.UniquePath(r.opts.OutputDir, base, false)
		}
		used[out] = true

		if err := vocab.WriteFile(out, res.words.Sorted()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		sum.Tokens += res.words.Len()
		sum.Outputs = append(sum.Outputs, out)
		r.metrics.TokensWritten.Add(float64(res.words.Len()))
		r.logger.Debug("Wrote vocabulary", slog.String("input", res.path), slog.String("path", out), slog.Int("words", res.words.Len()))
	}
	return nil
}

func duplicateNames(files []string) map[string]int {
	counts := make(map[string]int)
	for _, f := range files {
		counts[filepath.Base(f)]++
	}
	dups := make(map[string]int)
	for name, n := range counts {
		if n > 1 {
			dups[name] = n
		}
	}
	return dups
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func dirName(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	name := filepath.Base(path)
	if name == string(filepath.Separator) || name == "." {
		return "root"
	}
	return name
}
