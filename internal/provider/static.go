package provider

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/models"
)

const DefaultPriority = 0.5

// Static serves a fixed URL list with shared change frequency and priority.
type Static struct {
	URLs            []string
	ChangeFrequency models.ChangeFrequency
	Priority        float64
	UpdatedAt       time.Time
}

func (s *Static) Items(_ context.Context, _ int) ([]models.Item, error) {
	items := make([]models.Item, 0, len(s.URLs))
	for _, u := range s.URLs {
		items = append(items, models.Item{
			URL:             u,
			UpdatedAt:       s.UpdatedAt,
			ChangeFrequency: s.ChangeFrequency,
			Priority:        s.Priority,
		})
	}
	return items, nil
}
