package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// DownloadFileName is the file name the cloned page is saved under.
const DownloadFileName = "cloned-website.html"

// SaveHTML writes html to DownloadFileName inside dir, byte for byte, and
// returns the written path. The file is written to a temporary sibling first
// and renamed into place; the temporary file is removed on every path.
func SaveHTML(dir, html string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, DownloadFileName)
	if err := writeFileAtomic(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", DownloadFileName, err)
	}

	return path, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".cloned-website-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
