package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/models"
	"github.com/MrSnakeDoc/sitemapgen/internal/utils"
)

// HistoryCap bounds how many records meta.json keeps.
const HistoryCap = 20

// FS keeps records in <dir>/meta.json, written atomically, with an
// in-memory copy of the last read or write.
type FS struct {
	dir      string
	metaPath string
	mu       sync.RWMutex
	hot      *metaFile
}

type metaFile struct {
	Latest  models.Record   `json:"latest"`
	History []models.Record `json:"history"`
}

func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	s := &FS{
		dir:      dir,
		metaPath: filepath.Join(dir, "meta.json"),
	}
	if err := s.loadHotFromDisk(); err != nil {
		logger.Warn("store: ignoring unreadable history, the next save starts a new one: %v", err)
	}
	return s, nil
}

func (s *FS) Save(_ context.Context, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := metaFile{Latest: rec, History: []models.Record{rec}}
	if s.hot != nil {
		m.History = append(m.History, s.hot.History...)
	}
	if len(m.History) > HistoryCap {
		m.History = m.History[:HistoryCap]
	}

	logger.Debug("store: writing %s (id=%s)", s.metaPath, rec.ID)
	if err := utils.WriteJSONAtomic(s.metaPath, m); err != nil {
		return err
	}
	s.hot = &m
	return nil
}

func (s *FS) Latest(_ context.Context) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hot == nil {
		return models.Record{}, ErrNotFound
	}
	return s.hot.Latest, nil
}

func (s *FS) History(_ context.Context, limit int) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hot == nil {
		return nil, nil
	}
	h := s.hot.History
	if limit > 0 && len(h) > limit {
		h = h[:limit]
	}
	return append([]models.Record(nil), h...), nil
}

func (s *FS) Close() error { return nil }

// --- internals ---

func (s *FS) loadHotFromDisk() (err error) {
	f, err := os.Open(s.metaPath)
	if err != nil {
		// Not ready yet is fine
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close failed: %w", cerr)
		}
	}()

	var m metaFile
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return fmt.Errorf("decode %s: %w", s.metaPath, err)
	}

	s.mu.Lock()
	s.hot = &m
	s.mu.Unlock()
	return nil
}
