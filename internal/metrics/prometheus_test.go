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

func TestPrometheus_Counts(t *testing.T) {
	p := NewPrometheus(nil)

	p.ObserveRun(time.Second, true)
	p.ObserveRun(time.Second, false)
	p.AddFiles("product", 2)
	p.AddFiles("product", 1)
	p.AddRows("category", 5)

	assert.InDelta(t, 1, testutil.ToFloat64(p.runs.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.runs.WithLabelValues("failed")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(p.files.WithLabelValues("product")), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(p.rows.WithLabelValues("category")), 0)
	assert.Positive(t, testutil.ToFloat64(p.lastSuccess))
}

func TestPrometheus_WriteTextfile(t *testing.T) {
	p := NewPrometheus(nil)
	p.AddRows("page", 3)

	path := filepath.Join(t.TempDir(), "sitemapgen.prom")
	require.NoError(t, p.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `sitemapgen_rows_total{group="page"} 3`)
}

func TestNoop_SatisfiesRecorder(t *testing.T) {
	var r Recorder = Noop{}
	r.ObserveRun(0, true)
	r.AddFiles("x", 1)
	r.AddRows("x", 1)
}
