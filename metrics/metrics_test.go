package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New("seg")
	r.FilesProcessed.Inc()
	r.FilesProcessed.Inc()
	r.TokensWritten.Add(10)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.FilesProcessed))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.TokensWritten))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.FilesFailed))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New("dict")
	r.EntriesWritten.Add(3)
	r.Finish(time.Now().Add(-time.Second), true)

	path := filepath.Join(t.TempDir(), "imedict.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `imedict_entries_written_total{job="dict"} 3`)
	assert.Contains(t, string(data), "imedict_last_success_timestamp_seconds")
	assert.GreaterOrEqual(t, testutil.ToFloat64(r.LastRunSeconds), 1.0)
}
