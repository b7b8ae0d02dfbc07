package run

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
)

var ErrLocked = errors.New("generation lock already held")

// Lock is an exclusive lock file. The file holds the owner's pid.
type Lock struct {
	path string
}

// AcquireLock creates path with O_EXCL. A lock left behind by a crashed run
// must be removed by hand.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, errs.Wrap(errs.RunLocked, path, ErrLocked)
		}
		return nil, fmt.Errorf("create lock %s: %w", path, err)
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write lock %s: %w", path, err)
	}
	logger.Debug("lock: acquired %s", path)
	return &Lock{path: path}, nil
}

func (l *Lock) Path() string { return l.path }

// Release removes the lock file. Releasing twice is harmless.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	logger.Debug("lock: released %s", l.path)
	return nil
}
