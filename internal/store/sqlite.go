package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/models"

	_ "modernc.org/sqlite"
)

// SQLite keeps the full generation history in a local database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	logger.Debug("store: sqlite ready at %s", path)
	return s, nil
}

func (s *SQLite) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS generations (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		store_id INTEGER NOT NULL,
		filename TEXT NOT NULL,
		type TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		files TEXT NOT NULL,
		groups_json TEXT NOT NULL
	);`)
	return err
}

func (s *SQLite) Save(ctx context.Context, rec models.Record) error {
	files, err := json.Marshal(rec.Files)
	if err != nil {
		return err
	}
	groups, err := json.Marshal(rec.Groups)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO generations (id, store_id, filename, type, generated_at, files, groups_json) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StoreID, rec.Filename, string(rec.Type), rec.GeneratedAt, string(files), string(groups))
	if err != nil {
		return fmt.Errorf("insert generation %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLite) Latest(ctx context.Context) (models.Record, error) {
	recs, err := s.History(ctx, 1)
	if err != nil {
		return models.Record{}, err
	}
	if len(recs) == 0 {
		return models.Record{}, ErrNotFound
	}
	return recs[0], nil
}

func (s *SQLite) History(ctx context.Context, limit int) (recs []models.Record, err error) {
	q := `SELECT id, store_id, filename, type, generated_at, files, groups_json FROM generations ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close failed: %w", cerr)
		}
	}()

	for rows.Next() {
		var (
			rec           models.Record
			typ           string
			files, groups string
		)
		if err := rows.Scan(&rec.ID, &rec.StoreID, &rec.Filename, &typ, &rec.GeneratedAt, &files, &groups); err != nil {
			return nil, err
		}
		rec.Type = models.SitemapType(typ)
		if err := json.Unmarshal([]byte(files), &rec.Files); err != nil {
			return nil, fmt.Errorf("decode files of %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(groups), &rec.Groups); err != nil {
			return nil, fmt.Errorf("decode groups of %s: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Store = (*SQLite)(nil)
var _ Store = (*FS)(nil)

// IsNotFound reports whether err means no record exists.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
