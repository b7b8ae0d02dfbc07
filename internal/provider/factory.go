package provider

import (
	"fmt"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/models"
	"github.com/MrSnakeDoc/sitemapgen/internal/service"
)

// FromConfig builds the registrations described by the config, keeping
// their declared order.
func FromConfig(cfgs []config.ProviderConfig) ([]Registration, error) {
	regs := make([]Registration, 0, len(cfgs))
	for _, pc := range cfgs {
		p, err := build(pc)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", pc.Key, err)
		}
		regs = append(regs, Registration{Key: pc.Key, Provider: p})
	}
	return regs, nil
}

func build(pc config.ProviderConfig) (ItemProvider, error) {
	cf, err := models.ParseChangeFrequency(pc.ChangeFrequency)
	if err != nil {
		return nil, err
	}
	prio := DefaultPriority
	if pc.Priority != nil {
		prio = *pc.Priority
	}

	switch pc.Type {
	case config.ProviderStatic:
		return &Static{
			URLs:            append([]string(nil), pc.URLs...),
			ChangeFrequency: cf,
			Priority:        prio,
		}, nil
	case config.ProviderYAML:
		return &YAMLFile{
			Path:            pc.Path,
			ChangeFrequency: cf,
			Priority:        prio,
		}, nil
	case config.ProviderFeed:
		return &Feed{
			URL:             pc.URL,
			Client:          service.NewHTTPClient(time.Duration(pc.TimeoutSeconds) * time.Second),
			MaxBytes:        pc.MaxBytes,
			ChangeFrequency: cf,
			Priority:        prio,
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", pc.Type)
	}
}
