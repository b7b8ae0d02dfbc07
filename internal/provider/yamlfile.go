package provider

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/models"

	"gopkg.in/yaml.v3"
)

// YAMLFile reads items from a YAML document:
//
//	items:
//	  - url: /p/1
//	    updated_at: 2024-05-01T10:00:00Z
//	    changefreq: daily
//	    priority: 0.8
//	    store_id: 1        # optional, 0 = every store
//	    images:
//	      - url: /media/1.jpg
//
// The file is re-read on every call.
type YAMLFile struct {
	Path            string
	ChangeFrequency models.ChangeFrequency
	Priority        float64
}

type yamlDoc struct {
	Items []yamlItem `yaml:"items"`
}

type yamlItem struct {
	URL             string         `yaml:"url"`
	UpdatedAt       string         `yaml:"updated_at"`
	ChangeFrequency string         `yaml:"changefreq"`
	Priority        *float64       `yaml:"priority"`
	StoreID         int            `yaml:"store_id"`
	Images          []models.Image `yaml:"images"`
}

// itemDefaults fill fields an entry leaves out.
type itemDefaults struct {
	ChangeFrequency models.ChangeFrequency
	Priority        float64
}

var timeLayouts = []string{time.RFC3339, models.TimeLayout, "2006-01-02"}

func (y *YAMLFile) Items(_ context.Context, storeID int) ([]models.Item, error) {
	data, err := os.ReadFile(y.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", y.Path, err)
	}
	return decodeItems(y.Path, data, storeID, itemDefaults{y.ChangeFrequency, y.Priority})
}

// decodeItems parses an items document and keeps the entries visible to
// storeID. src names the document in errors.
func decodeItems(src string, data []byte, storeID int, def itemDefaults) ([]models.Item, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}

	items := make([]models.Item, 0, len(doc.Items))
	for i, raw := range doc.Items {
		if raw.StoreID != 0 && raw.StoreID != storeID {
			continue
		}
		it, err := toItem(raw, def)
		if err != nil {
			return nil, fmt.Errorf("%s: item #%d: %w", src, i+1, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func toItem(raw yamlItem, def itemDefaults) (models.Item, error) {
	if raw.URL == "" {
		return models.Item{}, fmt.Errorf("missing url")
	}

	cf, err := models.ParseChangeFrequency(raw.ChangeFrequency)
	if err != nil {
		return models.Item{}, err
	}
	if cf == "" {
		cf = def.ChangeFrequency
	}

	prio := def.Priority
	if raw.Priority != nil {
		prio = *raw.Priority
	}

	var updated time.Time
	if raw.UpdatedAt != "" {
		if updated, err = parseTime(raw.UpdatedAt); err != nil {
			return models.Item{}, err
		}
	}

	return models.Item{
		URL:             raw.URL,
		UpdatedAt:       updated,
		ChangeFrequency: cf,
		Priority:        prio,
		Images:          raw.Images,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable updated_at %q", s)
}
