package sitemap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/metrics"
	"github.com/MrSnakeDoc/sitemapgen/internal/models"
	"github.com/MrSnakeDoc/sitemapgen/internal/provider"
	"github.com/MrSnakeDoc/sitemapgen/internal/sink"

	"github.com/google/uuid"
)

type Aggregator interface {
	Aggregate(ctx context.Context, storeID int) ([]provider.Group, error)
}

type RowEncoder interface {
	URLRow(it models.Item) ([]byte, error)
	IndexRow(filename string, ts time.Time) ([]byte, error)
	Header(t models.SitemapType) []byte
	Footer(t models.SitemapType) []byte
}

// File is one open output file. Close must be safe after Finalize.
type File interface {
	io.Writer
	Finalize() error
	Close() error
}

type Sink interface {
	Create(name string) (File, error)
	Rename(oldName, newName string) error
}

type RecordSaver interface {
	Save(ctx context.Context, rec models.Record) error
}

// FileStat describes one produced sitemap file.
type FileStat struct {
	Group string
	Name  string
	Rows  int
	Bytes int64
}

type Result struct {
	Record models.Record
	Files  []FileStat
}

// Builder turns provider groups into split sitemap files plus an index.
// A Builder is not safe for concurrent runs; callers serialize them.
type Builder struct {
	agg   Aggregator
	enc   RowEncoder
	sink  Sink
	saver RecordSaver
	split SplitFunc
	names Namer
	rec   metrics.Recorder
	now   func() time.Time
	newID func() string
}

type Option func(*Builder)

func WithSplit(f SplitFunc) Option           { return func(b *Builder) { b.split = f } }
func WithLimits(l Limits) Option             { return func(b *Builder) { b.split = l.Split } }
func WithNamer(n Namer) Option               { return func(b *Builder) { b.names = n } }
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.rec = r } }
func WithClock(now func() time.Time) Option  { return func(b *Builder) { b.now = now } }
func WithIDs(f func() string) Option         { return func(b *Builder) { b.newID = f } }

func New(agg Aggregator, enc RowEncoder, s Sink, saver RecordSaver, opts ...Option) *Builder {
	b := &Builder{
		agg:   agg,
		enc:   enc,
		sink:  s,
		saver: saver,
		split: Limits{MaxLines: 50000, MaxBytes: 10 * 1024 * 1024}.Split,
		names: DefaultNamer{},
		rec:   metrics.Noop{},
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Generate aggregates the providers for storeID and builds every sitemap
// file plus the index named base. The generation record is saved only when
// everything else succeeded; files finalized before a failure stay on disk.
func (b *Builder) Generate(ctx context.Context, base string, storeID int) (*Result, error) {
	groups, err := b.agg.Aggregate(ctx, storeID)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if name := b.names.Group(base, g.Key); name == base {
			return nil, errs.Wrap(errs.ConfigInvalid, base,
				fmt.Errorf("group %s would write its sitemap over the index", g.Key))
		}
	}

	res := &Result{}
	var indexed []string
	perGroup := make(map[string]int, len(groups))

	for _, g := range groups {
		names, stats, err := b.writeGroup(base, g)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Key, err)
		}
		if len(stats) == 0 {
			logger.Debug("group %s: no items, skipped", g.Key)
			continue
		}

		rows := 0
		for _, st := range stats {
			rows += st.Rows
		}
		b.rec.AddFiles(g.Key, len(stats))
		b.rec.AddRows(g.Key, rows)
		logger.Info("group %s: %d urls in %d file(s)", g.Key, rows, len(stats))

		indexed = append(indexed, names...)
		perGroup[g.Key] += len(stats)
		res.Files = append(res.Files, stats...)
	}

	now := b.now().UTC()
	idx, err := b.writeIndex(base, indexed, now)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, idx)

	res.Record = models.Record{
		ID:          b.newID(),
		StoreID:     storeID,
		Filename:    base,
		Type:        models.TypeIndex,
		GeneratedAt: now.Format(models.TimeLayout),
		Files:       indexed,
		Groups:      perGroup,
	}
	if err := b.saver.Save(ctx, res.Record); err != nil {
		return nil, errs.Wrap(errs.StoreFailure, res.Record.ID, err)
	}
	return res, nil
}

// groupRun is the mutable state of one group, owned by writeGroup.
type groupRun struct {
	key   string
	name  string
	c     Counters
	file  File
	cur   string
	stats []FileStat
}

func (g *groupRun) release() {
	if g.file != nil {
		_ = g.file.Close()
		g.file = nil
	}
}

// writeGroup runs the split/write/finalize cycle for one group and returns
// the filenames it contributes to the index.
func (b *Builder) writeGroup(base string, grp provider.Group) (names []string, stats []FileStat, err error) {
	g := &groupRun{key: grp.Key, name: b.names.Group(base, grp.Key)}
	defer g.release()

	for _, it := range grp.Items {
		row, err := b.enc.URLRow(it)
		if err != nil {
			return nil, nil, errs.Wrap(errs.EncodingFailure, it.URL, err)
		}

		if g.file != nil && g.c.Lines > 0 && b.split(g.c, len(row)) {
			if err := b.finalize(g); err != nil {
				return nil, nil, err
			}
		}
		if g.file == nil {
			if err := b.open(g); err != nil {
				return nil, nil, err
			}
		}

		if _, err := g.file.Write(row); err != nil {
			return nil, nil, errs.Wrap(errs.SinkFailure, g.cur, err)
		}
		g.c.Lines++
		g.c.Size += int64(len(row))
	}

	if g.file != nil {
		if err := b.finalize(g); err != nil {
			return nil, nil, err
		}
	}

	switch g.c.Increment {
	case 0:
		return nil, nil, nil
	case 1:
		single := b.names.Increment(g.name, 1)
		if err := b.sink.Rename(single, g.name); err != nil {
			return nil, nil, errs.Wrap(errs.SinkFailure, single, err)
		}
		g.stats[0].Name = g.name
		return []string{g.name}, g.stats, nil
	default:
		names = make([]string, 0, g.c.Increment)
		for n := 1; n <= g.c.Increment; n++ {
			names = append(names, b.names.Increment(g.name, n))
		}
		return names, g.stats, nil
	}
}

func (b *Builder) open(g *groupRun) error {
	g.c.Increment++
	name := b.names.Increment(g.name, g.c.Increment)

	f, err := b.sink.Create(name)
	if err != nil {
		return errs.Wrap(errs.SinkFailure, name, err)
	}
	g.file, g.cur = f, name

	header := b.enc.Header(models.TypeURLSet)
	if _, err := f.Write(header); err != nil {
		return errs.Wrap(errs.SinkFailure, name, err)
	}
	g.c.Lines = 0
	g.c.Size = int64(len(header) + len(b.enc.Footer(models.TypeURLSet)))
	logger.Debug("group %s: opened %s", g.key, name)
	return nil
}

func (b *Builder) finalize(g *groupRun) error {
	if _, err := g.file.Write(b.enc.Footer(models.TypeURLSet)); err != nil {
		return errs.Wrap(errs.SinkFailure, g.cur, err)
	}
	if err := g.file.Finalize(); err != nil {
		return errs.Wrap(errs.SinkFailure, g.cur, err)
	}
	g.stats = append(g.stats, FileStat{Group: g.key, Name: g.cur, Rows: g.c.Lines, Bytes: g.c.Size})
	g.file = nil
	g.c.Lines, g.c.Size = 0, 0
	return nil
}

// DirSink adapts a sink.Dir to Sink.
func DirSink(d *sink.Dir) Sink { return dirSink{d} }

type dirSink struct{ *sink.Dir }

func (s dirSink) Create(name string) (File, error) {
	f, err := s.Dir.Create(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}
