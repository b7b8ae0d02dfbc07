package provider

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/models"
)

// ItemProvider supplies sitemap items for one store.
type ItemProvider interface {
	Items(ctx context.Context, storeID int) ([]models.Item, error)
}

// Func adapts a function to ItemProvider.
type Func func(ctx context.Context, storeID int) ([]models.Item, error)

func (f Func) Items(ctx context.Context, storeID int) ([]models.Item, error) {
	return f(ctx, storeID)
}

// Registration binds a provider to the group key naming its kind. Several
// registrations may share a key; their items land in the same group.
type Registration struct {
	Key      string
	Provider ItemProvider
}

// Group is the ordered item list of one provider kind.
type Group struct {
	Key   string
	Items []models.Item
}

// Composite aggregates registered providers in registration order.
type Composite struct {
	regs []Registration
}

func NewComposite(regs ...Registration) (*Composite, error) {
	for i, r := range regs {
		if !config.ValidGroupKey(r.Key) {
			return nil, fmt.Errorf("provider #%d: invalid group key %q (want [a-z0-9_]+)", i+1, r.Key)
		}
		if r.Provider == nil {
			return nil, fmt.Errorf("provider #%d (%s): nil provider", i+1, r.Key)
		}
	}
	return &Composite{regs: append([]Registration(nil), regs...)}, nil
}

// Aggregate calls every provider once and groups the items by key. Groups
// appear in the order their key was first registered, each holding items in
// emission order. The first provider failure aborts the whole call.
func (c *Composite) Aggregate(ctx context.Context, storeID int) ([]Group, error) {
	groups := make([]Group, 0, len(c.regs))
	pos := make(map[string]int, len(c.regs))

	for _, r := range c.regs {
		items, err := r.Provider.Items(ctx, storeID)
		if err != nil {
			return nil, errs.Wrap(errs.ProviderFailure, r.Key, err)
		}
		logger.Debug("aggregate: %s returned %d items", r.Key, len(items))

		i, ok := pos[r.Key]
		if !ok {
			i = len(groups)
			pos[r.Key] = i
			groups = append(groups, Group{Key: r.Key, Items: make([]models.Item, 0, len(items))})
		}
		groups[i].Items = append(groups[i].Items, items...)
	}
	return groups, nil
}
