package sitemap

import (
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/models"
)

// writeIndex writes the sitemap index listing every produced file, stamped
// with the run's generation time.
func (b *Builder) writeIndex(base string, names []string, ts time.Time) (stat FileStat, err error) {
	f, err := b.sink.Create(base)
	if err != nil {
		return FileStat{}, errs.Wrap(errs.SinkFailure, base, err)
	}
	defer func() { _ = f.Close() }()

	header, footer := b.enc.Header(models.TypeIndex), b.enc.Footer(models.TypeIndex)
	size := int64(len(header) + len(footer))
	if _, err := f.Write(header); err != nil {
		return FileStat{}, errs.Wrap(errs.SinkFailure, base, err)
	}

	for _, name := range names {
		row, err := b.enc.IndexRow(name, ts)
		if err != nil {
			return FileStat{}, errs.Wrap(errs.EncodingFailure, name, err)
		}
		if _, err := f.Write(row); err != nil {
			return FileStat{}, errs.Wrap(errs.SinkFailure, base, err)
		}
		size += int64(len(row))
	}

	if _, err := f.Write(footer); err != nil {
		return FileStat{}, errs.Wrap(errs.SinkFailure, base, err)
	}
	if err := f.Finalize(); err != nil {
		return FileStat{}, errs.Wrap(errs.SinkFailure, base, err)
	}
	return FileStat{Name: base, Rows: len(names), Bytes: size}, nil
}
