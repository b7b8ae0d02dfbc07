package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("expected a file, got a directory: %s", path)
	}
	return true, nil
}

// CreateFile writes data to path, creating parent directories.
func CreateFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directories for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// CommitFile syncs and closes tmp, then renames it over finalPath.
// tmp is removed on any failure.
func CommitFile(tmp *os.File, finalPath string) error {
	tmpPath := tmp.Name()
	syncErr := tmp.Sync()
	closeErr := tmp.Close()

	if syncErr != nil {
		_ = os.Remove(tmpPath)
		return syncErr
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return SyncDir(filepath.Dir(finalPath))
}

func WriteJSONAtomic(path string, v any) error {
	tmp, err := os.OpenFile(path+".tmp", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	return CommitFile(tmp, path)
}

// SyncDir fsyncs a directory so a rename inside it is durable.
func SyncDir(dir string) (err error) {
	df, err := os.Open(dir)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := df.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close failed: %w", cerr)
		}
	}()

	// On non-Unix, Sync may be no-op; fine.
	_ = df.Sync()
	return nil
}
