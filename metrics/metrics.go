// Package metrics counts what a batch run did and can dump the counters in
// the node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "imedict"

// Recorder holds the counters of one batch run in a private registry.
type Recorder struct {
	reg *prometheus.Registry

	FilesProcessed  prometheus.Counter
	FilesFailed     prometheus.Counter
	FilesSkipped    prometheus.Counter
	TokensWritten   prometheus.Counter
	EntriesWritten  prometheus.Counter
	ReadingsMissing prometheus.Counter
	LastRunSeconds  prometheus.Gauge
	LastSuccess     prometheus.Gauge
}

// New creates a Recorder whose series carry job as a constant label.
func New(job string) *Recorder {
	labels := prometheus.Labels{"job": job}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	r := &Recorder{
		reg:             prometheus.NewRegistry(),
		FilesProcessed:  counter("files_processed_total", "Input files read successfully."),
		FilesFailed:     counter("files_failed_total", "Input files skipped because of read, decode or write errors."),
		FilesSkipped:    counter("files_skipped_total", "Input files skipped because of unsupported type."),
		TokensWritten:   counter("tokens_written_total", "Vocabulary tokens written to intermediate files."),
		EntriesWritten:  counter("entries_written_total", "Dictionary entries written."),
		ReadingsMissing: counter("readings_missing_total", "Words without a pinyin reading."),
		LastRunSeconds:  gauge("last_run_duration_seconds", "Wall time of the last run."),
		LastSuccess:     gauge("last_success_timestamp_seconds", "Unix time of the last successful run."),
	}
	r.reg.MustRegister(
		r.FilesProcessed, r.FilesFailed, r.FilesSkipped, r.TokensWritten,
		r.EntriesWritten, r.ReadingsMissing, r.LastRunSeconds, r.LastSuccess,
	)
	return r
}

// Finish records the duration of a run that started at start and, when ok,
// the time of success.
func (r *Recorder) Finish(start time.Time, ok bool) {
	r.LastRunSeconds.Set(time.Since(start).Seconds())
	if ok {
		r.LastSuccess.SetToCurrentTime()
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// WriteTextfile writes all series to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
