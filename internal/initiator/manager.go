package initiator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/prompter"
	"github.com/MrSnakeDoc/sitemapgen/internal/utils"
)

// Initiator writes the starter configuration.
type Initiator struct {
	ConfigPath string
	Force      bool
	// Prompter, when set, is asked before overwriting an existing file.
	Prompter prompter.Prompter
}

func New(path string, force bool, p prompter.Prompter) *Initiator {
	if path == "" {
		path = config.FileName
	}
	return &Initiator{ConfigPath: path, Force: force, Prompter: p}
}

func (i *Initiator) Execute() error {
	abs, err := filepath.Abs(i.ConfigPath)
	if err != nil {
		return err
	}

	exists, err := utils.FileExists(abs)
	if err != nil {
		return err
	}
	if exists && !i.Force {
		ok, err := i.confirmOverwrite(abs)
		if err != nil {
			return err
		}
		if !ok {
			return &errs.Error{Code: errs.ConfigExists, Op: abs}
		}
	}

	if err := utils.CreateFile(abs, []byte(config.Starter), 0o644); err != nil {
		return err
	}
	logger.Debug("init: wrote %s", abs)

	outDir := filepath.Join(filepath.Dir(abs), "public")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}
	i.ConfigPath = abs
	return nil
}

func (i *Initiator) confirmOverwrite(path string) (bool, error) {
	if i.Prompter == nil {
		return false, nil
	}
	ok, err := i.Prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", path))
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	return ok, err
}
