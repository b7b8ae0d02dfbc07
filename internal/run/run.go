package run

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/encoder"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/metrics"
	"github.com/MrSnakeDoc/sitemapgen/internal/provider"
	"github.com/MrSnakeDoc/sitemapgen/internal/sink"
	"github.com/MrSnakeDoc/sitemapgen/internal/sitemap"
	"github.com/MrSnakeDoc/sitemapgen/internal/store"
	"github.com/MrSnakeDoc/sitemapgen/internal/utils"
)

type Options struct {
	// StoreID overrides cfg.StoreID when not nil.
	StoreID *int
	// MetricsFile, when set, receives a Prometheus textfile dump after the
	// run, whatever its outcome.
	MetricsFile string
	// Recorder receives observations in addition to the textfile registry.
	Recorder metrics.Recorder
}

// Generate performs one locked generation run for cfg: aggregate the
// configured providers, write the split sitemaps and the index, persist the
// generation record.
func Generate(ctx context.Context, cfg *config.Config, opts Options) (res *sitemap.Result, err error) {
	lock, err := AcquireLock(cfg.LockPath())
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	storeID := cfg.StoreID
	if opts.StoreID != nil {
		storeID = *opts.StoreID
	}

	rec, prom := recorders(opts)
	start := time.Now()
	defer func() {
		rec.ObserveRun(time.Since(start), err == nil)
		if prom != nil {
			if werr := prom.WriteTextfile(opts.MetricsFile); werr != nil {
				logger.Warn("metrics: %v", werr)
			}
		}
	}()

	st, err := store.Open(cfg.Metadata.Driver, cfg.MetadataPath())
	if err != nil {
		return nil, fmt.Errorf("open metadata store: %w", err)
	}
	defer utils.Close(st)

	b, err := newBuilder(cfg, st, rec)
	if err != nil {
		return nil, err
	}

	logger.Debug("run: store=%d output=%s limits=%d lines/%d bytes",
		storeID, cfg.OutputDir, cfg.Limits.MaxLines, cfg.Limits.MaxFileSize)
	return b.Generate(ctx, cfg.Filename, storeID)
}

func newBuilder(cfg *config.Config, st store.Store, rec metrics.Recorder) (*sitemap.Builder, error) {
	regs, err := provider.FromConfig(cfg.Providers)
	if err != nil {
		return nil, err
	}
	agg, err := provider.NewComposite(regs...)
	if err != nil {
		return nil, err
	}
	dir, err := sink.NewDir(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	return sitemap.New(agg, encoder.NewXML(cfg.BaseURL), sitemap.DirSink(dir), st,
		sitemap.WithLimits(sitemap.Limits{MaxLines: cfg.Limits.MaxLines, MaxBytes: cfg.Limits.MaxFileSize}),
		sitemap.WithRecorder(rec),
	), nil
}

func recorders(opts Options) (metrics.Recorder, *metrics.Prometheus) {
	var out multi
	if opts.Recorder != nil {
		out = append(out, opts.Recorder)
	}
	var prom *metrics.Prometheus
	if opts.MetricsFile != "" {
		prom = metrics.NewPrometheus(nil)
		out = append(out, prom)
	}
	switch len(out) {
	case 0:
		return metrics.Noop{}, nil
	case 1:
		return out[0], prom
	default:
		return out, prom
	}
}

// multi fans observations out to several recorders.
type multi []metrics.Recorder

func (m multi) ObserveRun(d time.Duration, success bool) {
	for _, r := range m {
		r.ObserveRun(d, success)
	}
}

func (m multi) AddFiles(group string, n int) {
	for _, r := range m {
		r.AddFiles(group, n)
	}
}

func (m multi) AddRows(group string, n int) {
	for _, r := range m {
		r.AddRows(group, n)
	}
}
