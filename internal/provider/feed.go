package provider

import (
	"context"

	"github.com/MrSnakeDoc/sitemapgen/internal/models"
	"github.com/MrSnakeDoc/sitemapgen/internal/service"
)

// DefaultFeedMaxBytes caps a feed body.
const DefaultFeedMaxBytes = 64 << 20

// Feed fetches an items document (same format as YAMLFile) over HTTP on
// every call.
type Feed struct {
	URL             string
	Client          service.HTTPClient
	MaxBytes        int64
	ChangeFrequency models.ChangeFrequency
	Priority        float64
}

func (f *Feed) Items(ctx context.Context, storeID int) ([]models.Item, error) {
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultFeedMaxBytes
	}
	data, err := service.Fetch(ctx, f.Client, f.URL, limit)
	if err != nil {
		return nil, err
	}
	return decodeItems(f.URL, data, storeID, itemDefaults{f.ChangeFrequency, f.Priority})
}
