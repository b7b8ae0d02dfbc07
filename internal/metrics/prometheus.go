package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements Recorder on its own registry, so a batch run can
// dump it with WriteTextfile for node_exporter's textfile collector.
type Prometheus struct {
	reg         *prom.Registry
	runDuration prom.Histogram
	runs        *prom.CounterVec
	lastSuccess prom.Gauge
	files       *prom.CounterVec
	rows        *prom.CounterVec
}

func NewPrometheus(reg *prom.Registry) *Prometheus {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	p := &Prometheus{
		reg: reg,
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sitemapgen",
			Name:      "run_duration_seconds",
			Help:      "Duration of sitemap generation runs",
			Buckets:   prom.DefBuckets,
		}),
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "runs_total",
			Help:      "Generation runs by outcome",
		}, []string{"outcome"}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: "sitemapgen",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful generation run",
		}),
		files: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "files_total",
			Help:      "Sitemap files produced per group",
		}, []string{"group"}),
		rows: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapgen",
			Name:      "rows_total",
			Help:      "URL rows written per group",
		}, []string{"group"}),
	}
	reg.MustRegister(p.runDuration, p.runs, p.lastSuccess, p.files, p.rows)
	return p
}

func (p *Prometheus) ObserveRun(d time.Duration, success bool) {
	p.runDuration.Observe(d.Seconds())
	outcome := "failed"
	if success {
		outcome = "success"
		p.lastSuccess.SetToCurrentTime()
	}
	p.runs.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) AddFiles(group string, n int) {
	p.files.WithLabelValues(group).Add(float64(n))
}

func (p *Prometheus) AddRows(group string, n int) {
	p.rows.WithLabelValues(group).Add(float64(n))
}

func (p *Prometheus) Registry() *prom.Registry { return p.reg }

// WriteTextfile dumps the registry in text exposition format.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
