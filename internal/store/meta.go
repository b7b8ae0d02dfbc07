package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/models"
)

var ErrNotFound = errors.New("no generation recorded yet")

// Store persists generation records.
type Store interface {
	// Save records a successful run.
	Save(ctx context.Context, rec models.Record) error

	// Latest returns the newest record or ErrNotFound.
	Latest(ctx context.Context) (models.Record, error)

	// History returns up to limit records, newest first.
	History(ctx context.Context, limit int) ([]models.Record, error)

	Close() error
}

// Open returns the store for a metadata driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case config.DriverJSON, "":
		return NewFS(path)
	case config.DriverSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown metadata driver %q", driver)
	}
}
