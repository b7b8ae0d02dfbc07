package sink

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/utils"
)

var ErrClosed = errors.New("sitemap file already closed")

// Dir writes sitemap files into one directory. Every file is staged in a
// hidden temp file and only appears under its final name on Finalize.
type Dir struct {
	root string
	perm os.FileMode
}

func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", root, err)
	}
	return &Dir{root: root, perm: 0o644}, nil
}

func (d *Dir) Root() string { return d.root }

// File is an open sitemap. Callers must Close it on every path; Close after
// Finalize is a no-op.
type File struct {
	name  string
	final string
	tmp   *os.File
	w     *bufio.Writer
	done  bool
}

func (d *Dir) Create(name string) (*File, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(d.root, "."+name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	if err := tmp.Chmod(d.perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("chmod %s: %w", name, err)
	}
	logger.Debug("sink: opened %s", name)
	return &File{
		name:  name,
		final: filepath.Join(d.root, name),
		tmp:   tmp,
		w:     bufio.NewWriterSize(tmp, 64*1024),
	}, nil
}

func (f *File) Name() string { return f.name }

func (f *File) Write(p []byte) (int, error) {
	if f.done {
		return 0, ErrClosed
	}
	return f.w.Write(p)
}

// Finalize flushes, syncs and publishes the file under its final name.
func (f *File) Finalize() error {
	if f.done {
		return ErrClosed
	}
	f.done = true
	if err := f.w.Flush(); err != nil {
		_ = f.tmp.Close()
		_ = os.Remove(f.tmp.Name())
		return fmt.Errorf("flush %s: %w", f.name, err)
	}
	if err := utils.CommitFile(f.tmp, f.final); err != nil {
		return fmt.Errorf("commit %s: %w", f.name, err)
	}
	logger.Debug("sink: finalized %s", f.name)
	return nil
}

// Close discards an unfinalized file.
func (f *File) Close() error {
	if f.done {
		return nil
	}
	f.done = true
	closeErr := f.tmp.Close()
	if err := os.Remove(f.tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	logger.Debug("sink: discarded %s", f.name)
	return closeErr
}

// Rename moves a finalized file, replacing any file already at newName.
func (d *Dir) Rename(oldName, newName string) error {
	if err := checkName(oldName); err != nil {
		return err
	}
	if err := checkName(newName); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(d.root, oldName), filepath.Join(d.root, newName)); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", oldName, newName, err)
	}
	return utils.SyncDir(d.root)
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid sitemap filename %q", name)
	}
	return nil
}
